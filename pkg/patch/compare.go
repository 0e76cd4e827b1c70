package patch

import (
	"fmt"
	"io"
	"sort"
)

// DeltaKind classifies one entry of a comparison report.
type DeltaKind int

const (
	// DeltaRemoved marks a file present in the first document only.
	DeltaRemoved DeltaKind = iota
	// DeltaAdded marks a file present in the second document only.
	DeltaAdded
	// DeltaChanged marks a file whose per-file aggregates differ between
	// the two documents.
	DeltaChanged
)

// Delta is one comparison finding. For DeltaChanged both aggregate sides are
// populated; for the one-sided kinds only the side that owns the file is.
type Delta struct {
	Path string
	Kind DeltaKind
	A    FileStats
	B    FileStats
}

// Compare reports, for the union of file paths across the two documents,
// files unique to one side and files whose aggregates differ between sides.
// Files with equal aggregates are suppressed: the comparison is a documented
// aggregate-statistics approximation and never inspects line content, so two
// files with equal totals but different changes compare as identical.
func Compare(a, b *Document) []Delta {
	union := make(map[string]struct{}, len(a.Files)+len(b.Files))
	for path := range a.Files {
		union[path] = struct{}{}
	}
	for path := range b.Files {
		union[path] = struct{}{}
	}
	paths := make([]string, 0, len(union))
	for path := range union {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var deltas []Delta
	for _, path := range paths {
		fa, inA := a.Files[path]
		fb, inB := b.Files[path]
		switch {
		case inA && !inB:
			deltas = append(deltas, Delta{Path: path, Kind: DeltaRemoved, A: fa.Stats()})
		case !inA && inB:
			deltas = append(deltas, Delta{Path: path, Kind: DeltaAdded, B: fb.Stats()})
		default:
			sa, sb := fa.Stats(), fb.Stats()
			if sa == sb {
				continue
			}
			deltas = append(deltas, Delta{Path: path, Kind: DeltaChanged, A: sa, B: sb})
		}
	}
	return deltas
}

// CompareFiles parses the two named patches independently, with no predicates
// active and no shared state, and compares the resulting documents.
func CompareFiles(nameA, nameB string) ([]Delta, error) {
	docA, _, err := ParseFile(nameA, Options{})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", nameA, err)
	}
	docB, _, err := ParseFile(nameB, Options{})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", nameB, err)
	}
	return Compare(docA, docB), nil
}

// WriteDeltas renders the comparison report.
func WriteDeltas(w io.Writer, deltas []Delta) error {
	for _, d := range deltas {
		var err error
		switch d.Kind {
		case DeltaRemoved:
			_, err = fmt.Fprintf(w, " removed: %s (%s)\n", d.Path, d.A)
		case DeltaAdded:
			_, err = fmt.Fprintf(w, " added: %s (%s)\n", d.Path, d.B)
		case DeltaChanged:
			_, err = fmt.Fprintf(w, " changed: %s (%s) vs (%s)\n", d.Path, d.A, d.B)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, " %d difference%s\n", len(deltas), suffix(len(deltas)))
	return err
}
