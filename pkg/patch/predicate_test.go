package patch

import (
	"regexp"
	"testing"
)

// mustFilter builds a filter from optional path and content pattern strings.
func mustFilter(t *testing.T, pathPattern, contentPattern string) *Filter {
	t.Helper()
	f := &Filter{}
	if pathPattern != "" {
		f.Path = regexp.MustCompile(pathPattern)
	}
	if contentPattern != "" {
		f.Content = regexp.MustCompile(contentPattern)
	}
	return f
}

func sampleHunk() *Hunk {
	return &Hunk{
		ID:       1,
		Path:     "foo.c",
		OldRange: "-1,3",
		NewRange: "+1,4",
		Added:    2,
		Removed:  1,
		Lines: []string{
			"@@ -1,3 +1,4 @@",
			" context alpha",
			"-removed beta",
			"+added gamma",
			"+added delta",
			" context omega",
		},
	}
}

func TestMatchPathWithoutPatternMatchesEverything(t *testing.T) {
	t.Parallel()

	var f *Filter
	if !f.MatchPath("anything/at/all.c") {
		t.Fatalf("nil filter must match every path")
	}
	if f.PathActive() || f.ContentActive() {
		t.Fatalf("nil filter must report no active predicates")
	}
}

func TestMatchPathInversion(t *testing.T) {
	t.Parallel()

	f := &Filter{Path: regexp.MustCompile(`\.go$`)}
	if !f.MatchPath("main.go") || f.MatchPath("main.c") {
		t.Fatalf("plain path predicate misbehaved")
	}
	f.InvertPath = true
	if f.MatchPath("main.go") || !f.MatchPath("main.c") {
		t.Fatalf("inverted path predicate misbehaved")
	}
}

func TestMatchHunkTestsOnlyChangeLines(t *testing.T) {
	t.Parallel()

	h := sampleHunk()
	if mustFilter(t, "", "omega").MatchHunk(h) {
		t.Fatalf("context lines must never be tested")
	}
	if !mustFilter(t, "", "gamma").MatchHunk(h) {
		t.Fatalf("added lines must be tested")
	}
	if !mustFilter(t, "", "beta").MatchHunk(h) {
		t.Fatalf("removed lines must be tested")
	}
}

func TestMatchHunkCombinators(t *testing.T) {
	t.Parallel()

	h := sampleHunk()
	matching := regexp.MustCompile("gamma")
	missing := regexp.MustCompile("nowhere")

	and := &Filter{Content: matching, Content2: missing, Combine: CombineAnd}
	if and.MatchHunk(h) {
		t.Fatalf("AND with one missing pattern must exclude the hunk")
	}
	or := &Filter{Content: matching, Content2: missing, Combine: CombineOr}
	if !or.MatchHunk(h) {
		t.Fatalf("OR with one matching pattern must include the hunk")
	}

	and.InvertContent = true
	if !and.MatchHunk(h) {
		t.Fatalf("inversion must flip the AND outcome")
	}
	or.InvertContent = true
	if or.MatchHunk(h) {
		t.Fatalf("inversion must flip the OR outcome")
	}
}

func TestMatchHunkSecondaryPatternAlone(t *testing.T) {
	t.Parallel()

	h := sampleHunk()
	f := &Filter{Content2: regexp.MustCompile("delta")}
	if !f.MatchHunk(h) {
		t.Fatalf("a lone secondary pattern must drive the result")
	}
}

func TestMatchHunkInactiveFilter(t *testing.T) {
	t.Parallel()

	h := sampleHunk()
	if (&Filter{}).MatchHunk(h) {
		t.Fatalf("filter without content patterns must match nothing")
	}
}
