package patch

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Rewrite emits the matching subset of the document to w as a syntactically
// valid unified diff: for every file in sorted order that passes the path
// filter and owns at least one matched hunk, the verbatim header block
// followed by each matched hunk's verbatim line sequence. Files with no
// surviving hunks are omitted entirely so the output carries no orphan
// headers.
func Rewrite(w io.Writer, doc *Document, matches *MatchSet) error {
	bw := bufio.NewWriter(w)
	for _, path := range doc.Paths() {
		f := doc.Files[path]
		if !matches.PathIncluded(path) {
			continue
		}
		hunks := matches.SelectedHunks(f)
		if len(hunks) == 0 {
			continue
		}
		for _, line := range f.Header {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return err
			}
		}
		for _, h := range hunks {
			for _, line := range h.Lines {
				if _, err := fmt.Fprintln(bw, line); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// RewriteTo writes the matching subset to the named target, truncating or
// creating it, or to standard output when the target is the "-" sentinel.
// The destination is closed on the single exit path; close errors surface.
func RewriteTo(target string, doc *Document, matches *MatchSet) error {
	if target == "-" {
		return Rewrite(os.Stdout, doc, matches)
	}
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if err := Rewrite(out, doc, matches); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}
	return nil
}
