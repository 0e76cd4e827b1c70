package patch

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// suffix implements the singular/plural rule shared by the reports: empty
// when the count is exactly one, "s" otherwise.
func suffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// includedFiles returns the file records a report covers, in sorted path
// order: files passing the path filter and, when a content predicate is
// active, owning at least one matched hunk.
func includedFiles(doc *Document, matches *MatchSet) []*FileRecord {
	var out []*FileRecord
	for _, path := range doc.Paths() {
		f := doc.Files[path]
		if !matches.PathIncluded(path) {
			continue
		}
		if matches != nil && matches.ContentActive && len(matches.SelectedHunks(f)) == 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// WriteDiffstat renders the diffstat-style report: one line per file with
// the total changed-line count, paths padded to the longest width, then the
// conventional "files changed" summary.
func WriteDiffstat(w io.Writer, doc *Document, matches *MatchSet) error {
	files := includedFiles(doc, matches)

	width := 0
	for _, f := range files {
		if len(f.Path) > width {
			width = len(f.Path)
		}
	}

	var adds, dels int
	for _, f := range files {
		var fileAdds, fileDels int
		for _, h := range matches.SelectedHunks(f) {
			fileAdds += h.Added
			fileDels += h.Removed
		}
		adds += fileAdds
		dels += fileDels
		if _, err := fmt.Fprintf(w, " %-*s |%5d \n", width, f.Path, fileAdds+fileDels); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, " %d files changed, %d insertions(+), %d deletions(-)\n", len(files), adds, dels)
	return err
}

// WriteSummary renders the full report: per file a new-file flag character,
// additions, removals, and hunk count; verbose mode additionally lists every
// hunk's index, counts, and new-range token.
func WriteSummary(w io.Writer, doc *Document, matches *MatchSet, verbose bool) error {
	files := includedFiles(doc, matches)

	var adds, dels, hunks int
	for _, f := range files {
		flag := byte('|')
		if f.IsNew() {
			flag = 'N'
		}
		selected := matches.SelectedHunks(f)
		var fileAdds, fileDels int
		for _, h := range selected {
			fileAdds += h.Added
			fileDels += h.Removed
		}
		adds += fileAdds
		dels += fileDels
		hunks += len(selected)

		_, err := fmt.Fprintf(w, " %c %s: %d addition%s, %d removal%s, %d hunk%s\n",
			flag, f.Path, fileAdds, suffix(fileAdds), fileDels, suffix(fileDels), len(selected), suffix(len(selected)))
		if err != nil {
			return err
		}
		if !verbose {
			continue
		}
		for i, h := range selected {
			if _, err := fmt.Fprintf(w, "     hunk %d: +%d -%d @ %s\n", i+1, h.Added, h.Removed, h.NewRange); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, " %d file%s changed, %d insertion%s(+), %d deletion%s(-), %d hunk%s\n",
		len(files), suffix(len(files)), adds, suffix(adds), dels, suffix(dels), hunks, suffix(hunks))
	return err
}

// WriteMatches renders the pattern-match report, restricted to files owning
// at least one matched hunk: the 1-based indices of the matched hunks among
// the file's hunks and the matched count out of the file's total.
func WriteMatches(w io.Writer, doc *Document, matches *MatchSet) error {
	var totalFiles, totalHunks int
	for _, path := range doc.Paths() {
		f := doc.Files[path]
		if !matches.PathIncluded(path) {
			continue
		}
		var indices []string
		for i, h := range f.Hunks {
			if matches.HunkMatched(h.ID) {
				indices = append(indices, strconv.Itoa(i+1))
			}
		}
		if len(indices) == 0 {
			continue
		}
		totalFiles++
		totalHunks += len(indices)
		_, err := fmt.Fprintf(w, " %s: hunk%s %s (%d of %d)\n",
			f.Path, suffix(len(indices)), strings.Join(indices, ", "), len(indices), len(f.Hunks))
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, " %d file%s, %d hunk%s matched\n",
		totalFiles, suffix(totalFiles), totalHunks, suffix(totalHunks))
	return err
}

// WriteFileList renders the bare sorted list of matching file paths: owners
// of matched hunks when a content predicate was active, otherwise all parsed
// files, filtered further by any active path predicate.
func WriteFileList(w io.Writer, doc *Document, matches *MatchSet) error {
	for _, f := range includedFiles(doc, matches) {
		if _, err := fmt.Fprintln(w, f.Path); err != nil {
			return err
		}
	}
	return nil
}
