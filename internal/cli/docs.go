package cli

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

//go:embed usage.md
var docsMarkdown string

// renderDocs renders the embedded manual for the terminal.
func renderDocs(w io.Writer) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create docs renderer: %w", err)
	}
	out, err := renderer.Render(docsMarkdown)
	if err != nil {
		return fmt.Errorf("render docs: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}
