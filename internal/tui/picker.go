// Package tui implements the interactive hunk picker: a full-screen browser
// over a parsed patch document that lets the user assemble a hunk selection
// for the rewriter.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asynkron/patchscope/internal/render"
	"github.com/asynkron/patchscope/pkg/patch"
)

// Pick runs the picker over the document. The seed match set provides the
// initial selection (typically the parser's matched hunks) and its path
// filter is carried into the returned selection unchanged. The boolean
// reports whether the user confirmed the selection for writing.
func Pick(ctx context.Context, doc *patch.Document, seed *patch.MatchSet) (*patch.MatchSet, bool, error) {
	m := newModel(doc, seed)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return nil, false, fmt.Errorf("run picker: %w", err)
	}
	fm, ok := final.(*model)
	if !ok {
		return nil, false, fmt.Errorf("picker returned unexpected model %T", final)
	}
	return selectionSet(fm.selected, seed), fm.confirmed, nil
}

// selectionSet converts the picker's toggled hunk IDs into a match set for
// the rewriter. The content flag is always set: a confirmed empty selection
// means "write nothing", not "no predicate configured".
func selectionSet(selected map[int]struct{}, seed *patch.MatchSet) *patch.MatchSet {
	result := patch.NewMatchSet(true, seed != nil && seed.PathActive)
	if seed != nil {
		for path := range seed.Paths {
			result.MarkPath(path)
		}
	}
	for id := range selected {
		result.MarkHunk(id)
	}
	return result
}

type model struct {
	hunks    []*patch.Hunk
	visible  []int // indexes into hunks surviving the live filter
	selected map[int]struct{}
	cursor   int // position within visible

	vp        viewport.Model
	filter    textinput.Model
	filtering bool
	filterErr string

	width     int
	height    int
	ready     bool
	confirmed bool

	palette    render.Palette
	titleStyle lipgloss.Style
	rowStyle   lipgloss.Style
	curStyle   lipgloss.Style
	helpStyle  lipgloss.Style
}

func newModel(doc *patch.Document, seed *patch.MatchSet) *model {
	filter := textinput.New()
	filter.Placeholder = "content pattern (regexp)"
	filter.CharLimit = 0

	hunks := doc.Hunks()
	selected := make(map[int]struct{})
	for _, h := range hunks {
		if seed.HunkMatched(h.ID) {
			selected[h.ID] = struct{}{}
		}
	}

	m := &model{
		hunks:      hunks,
		visible:    allVisible(hunks),
		selected:   selected,
		filter:     filter,
		palette:    render.NewPalette(),
		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		rowStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		curStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("129")),
		helpStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = previewHeight(msg.Height)
		m.ready = true
		m.refreshPreview()
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.applyFilter(m.filter.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "w", "enter":
		m.confirmed = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.refreshPreview()
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.refreshPreview()
		}
	case " ":
		if h := m.current(); h != nil {
			if _, ok := m.selected[h.ID]; ok {
				delete(m.selected, h.ID)
			} else {
				m.selected[h.ID] = struct{}{}
			}
		}
	case "a":
		for _, idx := range m.visible {
			m.selected[m.hunks[idx].ID] = struct{}{}
		}
	case "n":
		for _, idx := range m.visible {
			delete(m.selected, m.hunks[idx].ID)
		}
	case "/":
		m.filtering = true
		m.filterErr = ""
		return m, m.filter.Focus()
	}
	return m, nil
}

func (m *model) current() *patch.Hunk {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.hunks[m.visible[m.cursor]]
}

func (m *model) applyFilter(pattern string) {
	if strings.TrimSpace(pattern) == "" {
		m.visible = allVisible(m.hunks)
		m.filterErr = ""
		m.cursor = 0
		m.refreshPreview()
		return
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		m.filterErr = err.Error()
		return
	}
	m.visible = filterVisible(m.hunks, re)
	m.filterErr = ""
	m.cursor = 0
	m.refreshPreview()
}

func (m *model) refreshPreview() {
	h := m.current()
	if h == nil {
		m.vp.SetContent("")
		return
	}
	m.vp.SetContent(m.palette.Lines(h.Lines))
	m.vp.GotoTop()
}

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.titleStyle.Render(fmt.Sprintf("patchscope: %d hunks, %d selected", len(m.hunks), len(m.selected))))
	b.WriteString("\n")

	rows := listHeight(m.height)
	start := windowStart(m.cursor, len(m.visible), rows)
	for i := start; i < start+rows && i < len(m.visible); i++ {
		h := m.hunks[m.visible[i]]
		_, sel := m.selected[h.ID]
		row := rowLabel(h, sel)
		if i == m.cursor {
			b.WriteString(m.curStyle.Render("> " + row))
		} else {
			b.WriteString(m.rowStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", max(1, m.width)))
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")

	switch {
	case m.filtering:
		b.WriteString(m.filter.View())
	case m.filterErr != "":
		b.WriteString(m.helpStyle.Render("filter error: " + m.filterErr))
	default:
		b.WriteString(m.helpStyle.Render("space toggle - a all - n none - / filter - w write - q quit"))
	}
	return b.String()
}

// allVisible returns every hunk index in registry order.
func allVisible(hunks []*patch.Hunk) []int {
	out := make([]int, len(hunks))
	for i := range hunks {
		out[i] = i
	}
	return out
}

// filterVisible returns the indexes of hunks whose added or removed lines
// match the pattern, mirroring the content-predicate rule that context lines
// are never tested.
func filterVisible(hunks []*patch.Hunk, re *regexp.Regexp) []int {
	var out []int
	for i, h := range hunks {
		for _, line := range h.ChangeLines() {
			if re.MatchString(line) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// rowLabel renders one list row for a hunk.
func rowLabel(h *patch.Hunk, selected bool) string {
	mark := " "
	if selected {
		mark = "x"
	}
	return fmt.Sprintf("[%s] #%d %s %s %s (+%d -%d)", mark, h.ID, h.Path, h.OldRange, h.NewRange, h.Added, h.Removed)
}

// windowStart positions the visible slice of the list so the cursor stays in
// view.
func windowStart(cursor, total, rows int) int {
	if total <= rows {
		return 0
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start > total-rows {
		start = total - rows
	}
	return start
}

func listHeight(height int) int {
	rows := (height - 4) / 2
	if rows < 3 {
		rows = 3
	}
	return rows
}

func previewHeight(height int) int {
	rows := height - listHeight(height) - 4
	if rows < 3 {
		rows = 3
	}
	return rows
}
