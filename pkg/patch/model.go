package patch

import (
	"fmt"
	"sort"
)

// Hunk is one "@@ ... @@" change region of a file. It is mutated only while it
// is the parser's current hunk and is immutable afterwards.
//
// The coordinate pair is kept as the two raw range tokens rather than parsed
// integers because some dialects omit the count when it is one; keeping the
// tokens verbatim makes rewriting lossless.
type Hunk struct {
	// ID is unique across the whole document, assigned in parse order
	// starting at 1.
	ID int
	// Path is the normalized path of the owning file.
	Path string
	// OldRange is the raw original-side range token, e.g. "-12,3".
	OldRange string
	// NewRange is the raw new-side range token, e.g. "+12,4".
	NewRange string
	// Added and Removed count the stored lines beginning with "+" and "-".
	Added   int
	Removed int
	// Lines holds the complete raw line sequence of the hunk, beginning
	// with the "@@" header line itself.
	Lines []string
}

// IsNewFile reports whether the hunk's original side is the zero-length
// marker, indicating the file did not previously exist.
func (h *Hunk) IsNewFile() bool {
	return h.OldRange == "-0,0"
}

// Key identifies the hunk by owning file and coordinates. The composite key
// is what the comparator and rewriter use to look hunks up across documents.
func (h *Hunk) Key() string {
	return h.Path + " " + h.OldRange + " " + h.NewRange
}

// ChangeLines returns the stored addition and removal lines of the hunk.
// Context lines, blank lines, and structural markers are never part of the
// content-predicate input.
func (h *Hunk) ChangeLines() []string {
	var out []string
	for _, line := range h.Lines[1:] {
		if len(line) == 0 {
			continue
		}
		if line[0] == '+' || line[0] == '-' {
			out = append(out, line)
		}
	}
	return out
}

// FileRecord is one file's verbatim header block plus its ordered hunks.
type FileRecord struct {
	// Path is the normalized file path: the second whitespace token of the
	// last header line with its first path segment stripped.
	Path string
	// Header is the verbatim header line block (two, three, or four lines
	// depending on dialect, plus any mode/index metadata lines).
	Header []string
	Hunks  []*Hunk
}

// IsNew reports whether any hunk of the file carries the new-file marker.
func (f *FileRecord) IsNew() bool {
	for _, h := range f.Hunks {
		if h.IsNewFile() {
			return true
		}
	}
	return false
}

// Stats aggregates the file's additions, removals, hunk count, and new-file
// flag. The comparator treats two files with equal Stats as identical.
type FileStats struct {
	Added   int
	Removed int
	Hunks   int
	NewFile bool
}

func (s FileStats) String() string {
	flag := ""
	if s.NewFile {
		flag = ", new"
	}
	return fmt.Sprintf("+%d -%d, %d hunk%s%s", s.Added, s.Removed, s.Hunks, suffix(s.Hunks), flag)
}

// Stats computes the file's aggregate over all of its hunks.
func (f *FileRecord) Stats() FileStats {
	s := FileStats{Hunks: len(f.Hunks), NewFile: f.IsNew()}
	for _, h := range f.Hunks {
		s.Added += h.Added
		s.Removed += h.Removed
	}
	return s
}

// Warning records a non-fatal parse anomaly with enough context to diagnose.
type Warning struct {
	Line    int
	Text    string
	Message string
}

func (w Warning) String() string {
	if w.Text == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return fmt.Sprintf("line %d: %s: %q", w.Line, w.Message, w.Text)
}

// Document is the result of one parse invocation: a path-keyed mapping of
// file records plus a flat registry of every hunk by ID and by composite key.
// Every hunk reachable from the registry belongs to exactly one FileRecord.
type Document struct {
	Files    map[string]*FileRecord
	ByID     map[int]*Hunk
	ByKey    map[string]*Hunk
	Warnings []Warning
}

// NewDocument returns an empty document ready for registration.
func NewDocument() *Document {
	return &Document{
		Files: make(map[string]*FileRecord),
		ByID:  make(map[int]*Hunk),
		ByKey: make(map[string]*Hunk),
	}
}

// register appends the hunk to its owning file and indexes it in the flat
// registries.
func (d *Document) register(f *FileRecord, h *Hunk) {
	f.Hunks = append(f.Hunks, h)
	d.ByID[h.ID] = h
	d.ByKey[h.Key()] = h
}

// Paths returns every parsed file path in lexicographic order. Reports and
// the rewriter always emit files in this order.
func (d *Document) Paths() []string {
	paths := make([]string, 0, len(d.Files))
	for path := range d.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Hunks returns every hunk in ascending ID order, i.e. in order of
// appearance in the input.
func (d *Document) Hunks() []*Hunk {
	ids := make([]int, 0, len(d.ByID))
	for id := range d.ByID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	hunks := make([]*Hunk, 0, len(ids))
	for _, id := range ids {
		hunks = append(hunks, d.ByID[id])
	}
	return hunks
}

// HunkCount returns the number of hunks across all files.
func (d *Document) HunkCount() int {
	return len(d.ByID)
}

// MatchSet carries the two independent filter outcomes of a parse: the set of
// hunk IDs the content predicate selected and the set of file paths the path
// predicate selected. The Active flags distinguish "the predicate was never
// configured" from "the predicate matched nothing".
type MatchSet struct {
	ContentActive bool
	PathActive    bool
	HunkIDs       map[int]struct{}
	Paths         map[string]struct{}
}

// NewMatchSet returns an empty match set with the given activity flags.
func NewMatchSet(contentActive, pathActive bool) *MatchSet {
	return &MatchSet{
		ContentActive: contentActive,
		PathActive:    pathActive,
		HunkIDs:       make(map[int]struct{}),
		Paths:         make(map[string]struct{}),
	}
}

// MarkHunk records the hunk ID as matching the content predicate.
func (m *MatchSet) MarkHunk(id int) {
	m.HunkIDs[id] = struct{}{}
}

// MarkPath records the file path as matching the path predicate.
func (m *MatchSet) MarkPath(path string) {
	m.Paths[path] = struct{}{}
}

// HunkMatched reports membership of the hunk ID in the content match set.
func (m *MatchSet) HunkMatched(id int) bool {
	if m == nil {
		return false
	}
	_, ok := m.HunkIDs[id]
	return ok
}

// PathIncluded reports whether the file path passes the path filter. With no
// path predicate configured every path passes.
func (m *MatchSet) PathIncluded(path string) bool {
	if m == nil || !m.PathActive {
		return true
	}
	_, ok := m.Paths[path]
	return ok
}

// SelectedHunks returns the file's hunks restricted to the match set. A set
// with no content predicate and no explicit selection keeps every hunk, so an
// unfiltered document flows through reports and the rewriter unchanged.
func (m *MatchSet) SelectedHunks(f *FileRecord) []*Hunk {
	if m == nil || (!m.ContentActive && len(m.HunkIDs) == 0) {
		return f.Hunks
	}
	var out []*Hunk
	for _, h := range f.Hunks {
		if _, ok := m.HunkIDs[h.ID]; ok {
			out = append(out, h)
		}
	}
	return out
}
