package patch

import "regexp"

// Combinator selects how the results of the two content patterns combine.
type Combinator int

const (
	// CombineAnd requires both content patterns to match the hunk.
	CombineAnd Combinator = iota
	// CombineOr requires either content pattern to match the hunk.
	CombineOr
)

// Filter bundles the path predicate and the one-or-two content patterns of a
// parse invocation. The zero value (or a nil pointer) has no predicate
// active: every path passes and no hunk matches.
type Filter struct {
	// Path selects files by regular-expression match anywhere in the
	// normalized path, XORed with InvertPath.
	Path       *regexp.Regexp
	InvertPath bool

	// Content and Content2 are tested against a hunk's added and removed
	// lines only. The two results combine per Combine, then the combined
	// result is XORed with InvertContent.
	Content       *regexp.Regexp
	Content2      *regexp.Regexp
	Combine       Combinator
	InvertContent bool
}

// PathActive reports whether a path pattern was configured.
func (f *Filter) PathActive() bool {
	return f != nil && f.Path != nil
}

// ContentActive reports whether any content pattern was configured.
func (f *Filter) ContentActive() bool {
	return f != nil && (f.Content != nil || f.Content2 != nil)
}

// MatchPath evaluates the path predicate. Without a configured pattern every
// path matches.
func (f *Filter) MatchPath(path string) bool {
	if !f.PathActive() {
		return true
	}
	return f.Path.MatchString(path) != f.InvertPath
}

// MatchHunk evaluates the content predicate over the hunk's addition and
// removal lines. Context lines are never tested. Evaluation is total over
// the hunk's lines; both patterns are tracked in a single scan.
func (f *Filter) MatchHunk(h *Hunk) bool {
	if !f.ContentActive() {
		return false
	}

	var first, second bool
	for _, line := range h.ChangeLines() {
		if f.Content != nil && !first && f.Content.MatchString(line) {
			first = true
		}
		if f.Content2 != nil && !second && f.Content2.MatchString(line) {
			second = true
		}
	}

	result := first
	switch {
	case f.Content == nil:
		result = second
	case f.Content2 != nil && f.Combine == CombineAnd:
		result = first && second
	case f.Content2 != nil && f.Combine == CombineOr:
		result = first || second
	}
	return result != f.InvertContent
}
