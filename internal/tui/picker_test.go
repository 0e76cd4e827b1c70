package tui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/asynkron/patchscope/pkg/patch"
)

func pickerHunks() []*patch.Hunk {
	return []*patch.Hunk{
		{
			ID: 1, Path: "a.c", OldRange: "-1,2", NewRange: "+1,2", Added: 1, Removed: 1,
			Lines: []string{"@@ -1,2 +1,2 @@", "-alpha old", "+alpha new", " context"},
		},
		{
			ID: 2, Path: "b.c", OldRange: "-5,1", NewRange: "+5,2", Added: 2, Removed: 0,
			Lines: []string{"@@ -5,1 +5,2 @@", " context beta", "+beta one", "+beta two"},
		},
	}
}

func TestAllVisible(t *testing.T) {
	hunks := pickerHunks()
	got := allVisible(hunks)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("allVisible: got %v", got)
	}
}

func TestFilterVisibleSkipsContextLines(t *testing.T) {
	hunks := pickerHunks()

	if got := filterVisible(hunks, regexp.MustCompile("beta")); len(got) != 1 || got[0] != 1 {
		t.Fatalf("beta appears in change lines of the second hunk only, got %v", got)
	}
	// "context" only occurs on context lines, which the filter never tests.
	if got := filterVisible(hunks, regexp.MustCompile("context")); len(got) != 0 {
		t.Fatalf("context lines must not be filterable, got %v", got)
	}
	if got := filterVisible(hunks, regexp.MustCompile("alpha|beta")); len(got) != 2 {
		t.Fatalf("both hunks carry matching change lines, got %v", got)
	}
}

func TestRowLabel(t *testing.T) {
	h := pickerHunks()[0]
	if got, want := rowLabel(h, false), "[ ] #1 a.c -1,2 +1,2 (+1 -1)"; got != want {
		t.Fatalf("unselected row: got %q want %q", got, want)
	}
	if got, want := rowLabel(h, true), "[x] #1 a.c -1,2 +1,2 (+1 -1)"; got != want {
		t.Fatalf("selected row: got %q want %q", got, want)
	}
}

func TestWindowStartKeepsCursorInView(t *testing.T) {
	if got := windowStart(0, 2, 10); got != 0 {
		t.Fatalf("short lists never scroll, got %d", got)
	}
	if got := windowStart(0, 100, 10); got != 0 {
		t.Fatalf("top of a long list, got %d", got)
	}
	if got := windowStart(50, 100, 10); got != 45 {
		t.Fatalf("cursor centered mid-list, got %d", got)
	}
	if got := windowStart(99, 100, 10); got != 90 {
		t.Fatalf("bottom of a long list clamps, got %d", got)
	}
}

func TestHeightSplit(t *testing.T) {
	if got := listHeight(2); got != 3 {
		t.Fatalf("list height floor, got %d", got)
	}
	if got := previewHeight(2); got != 3 {
		t.Fatalf("preview height floor, got %d", got)
	}
	// A normal terminal splits between list and preview with room left for
	// the title, separator, and status rows.
	if list, preview := listHeight(40), previewHeight(40); list != 18 || preview != 18 {
		t.Fatalf("split of 40 rows: list %d preview %d", list, preview)
	}
}

func TestSelectionSetEmptySelectionRewritesNothing(t *testing.T) {
	doc := patch.NewDocument()
	for _, h := range pickerHunks() {
		doc.Files[h.Path] = &patch.FileRecord{
			Path:   h.Path,
			Header: []string{"diff --git a/" + h.Path + " b/" + h.Path},
			Hunks:  []*patch.Hunk{h},
		}
		doc.ByID[h.ID] = h
	}

	set := selectionSet(map[int]struct{}{}, nil)
	if !set.ContentActive {
		t.Fatalf("an explicit selection must set the content flag")
	}
	var out strings.Builder
	if err := patch.Rewrite(&out, doc, set); err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if out.String() != "" {
		t.Fatalf("deselecting every hunk must emit nothing, got %q", out.String())
	}
}

func TestSelectionSetRestrictsToToggledHunks(t *testing.T) {
	seed := patch.NewMatchSet(false, true)
	seed.MarkPath("a.c")

	set := selectionSet(map[int]struct{}{2: {}}, seed)
	if !set.HunkMatched(2) || set.HunkMatched(1) {
		t.Fatalf("only toggled hunks belong to the selection: %v", set.HunkIDs)
	}
	if !set.PathActive || !set.PathIncluded("a.c") || set.PathIncluded("b.c") {
		t.Fatalf("the seed's path filter must carry over unchanged")
	}
}

func TestNewModelSeedsSelection(t *testing.T) {
	doc := patch.NewDocument()
	seed := patch.NewMatchSet(true, false)
	seed.MarkHunk(2)

	for _, h := range pickerHunks() {
		doc.Files[h.Path] = &patch.FileRecord{Path: h.Path, Hunks: []*patch.Hunk{h}}
		doc.ByID[h.ID] = h
	}

	m := newModel(doc, seed)
	if _, ok := m.selected[2]; !ok {
		t.Fatalf("seed-matched hunk must start selected")
	}
	if _, ok := m.selected[1]; ok {
		t.Fatalf("unmatched hunk must start unselected")
	}
}
