package patch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Codes carried by ParseError. Only these two anomaly classes are fatal;
// everything else degrades to a Warning on the document.
const (
	// CodeHeaderFilenameMissing signals a completed file header whose
	// final line carries no extractable path.
	CodeHeaderFilenameMissing = "header_filename_missing"
	// CodeMissingFullContent signals an "Only in ..." line, produced when
	// the patch was generated without full content for added or deleted
	// files. Force mode downgrades it to a warning.
	CodeMissingFullContent = "missing_full_content"
)

// ParseError is a fatal structural failure with enough context to diagnose.
// It satisfies the error interface so it can be returned directly from Parse.
type ParseError struct {
	Code string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	switch e.Code {
	case CodeHeaderFilenameMissing:
		return fmt.Sprintf("line %d: cannot extract a filename from header line %q", e.Line, e.Text)
	case CodeMissingFullContent:
		return fmt.Sprintf("line %d: %q: patch lacks full content for added or deleted files", e.Line, e.Text)
	}
	return fmt.Sprintf("line %d: parse error on %q", e.Line, e.Text)
}

// Options configure a single parse invocation.
type Options struct {
	// Filter supplies the path and content predicates. A nil filter
	// matches every path and marks no hunks.
	Filter *Filter
	// RewriteActive enables the pass-through default: with no content
	// pattern configured, every hunk is marked matching so path-only
	// filtering and unfiltered copies work through the rewrite path.
	RewriteActive bool
	// Force downgrades "Only in" lines from fatal errors to warnings.
	Force bool
}

// Expected trailing line counts per header dialect, keyed by the prefix that
// opens the header.
const (
	diffHeaderRest  = 2 // "diff ...": the ---/+++ pair
	indexHeaderRest = 3 // "Index: ...": separator plus the ---/+++ pair
	bareHeaderRest  = 1 // "--- ...": just the +++ line
)

// headerMetadataPrefixes are recognized inside a header's countdown, kept in
// the raw header block but not counted against the remaining-lines total.
var headerMetadataPrefixes = []string{"old mode", "new mode", "new file mode", "index "}

type parser struct {
	opts    Options
	doc     *Document
	matches *MatchSet

	// inPatch is true once any header has completed; it gates whether a
	// "@@" line opens a hunk or is ignorable preamble.
	inPatch   bool
	inHeader  bool
	remaining int
	header    []string

	file   *FileRecord
	hunk   *Hunk
	nextID int
	lineNo int
}

// Parse consumes a stream of unified-diff lines and produces the document
// plus the two match sets, evaluated inline as parsing progresses. The two
// fatal error classes surface as *ParseError; all other anomalies are
// collected as warnings on the document.
func Parse(r io.Reader, opts Options) (*Document, *MatchSet, error) {
	p := &parser{
		opts:    opts,
		doc:     NewDocument(),
		matches: NewMatchSet(opts.Filter.ContentActive(), opts.Filter.PathActive()),
		nextID:  1,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		p.lineNo++
		if err := p.consume(scanner.Text()); err != nil {
			return nil, nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read patch: %w", err)
	}

	p.closeHunk()
	if p.inHeader {
		p.warn(p.lineNo, "", "patch ends inside an incomplete file header")
	}
	return p.doc, p.matches, nil
}

// ParseFile parses the named patch file, or standard input when the name is
// empty or the "-" sentinel.
func ParseFile(name string, opts Options) (*Document, *MatchSet, error) {
	if name == "" || name == "-" {
		return Parse(os.Stdin, opts)
	}
	in, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open patch %s: %w", name, err)
	}
	defer in.Close()
	return Parse(in, opts)
}

// consume feeds one input line through the state machine. Header dialects are
// tried in priority order before any hunk handling.
func (p *parser) consume(line string) error {
	switch {
	case strings.HasPrefix(line, "diff "):
		// A fresh diff line terminates an incomplete header immediately;
		// permission-only changes produce a header with no hunks.
		p.closeHunk()
		p.startHeader(line, diffHeaderRest)
		return nil
	case p.inHeader:
		return p.collectHeader(line)
	case strings.HasPrefix(line, "Index: "):
		p.closeHunk()
		p.startHeader(line, indexHeaderRest)
		return nil
	case strings.HasPrefix(line, "--- ") && strings.Contains(line, "/"):
		// The path-separator requirement rejects removed lines that
		// happen to begin with two dashes.
		p.closeHunk()
		p.startHeader(line, bareHeaderRest)
		return nil
	case strings.HasPrefix(line, "Only in "):
		if !p.opts.Force {
			return &ParseError{Code: CodeMissingFullContent, Line: p.lineNo, Text: line}
		}
		p.warn(p.lineNo, line, "skipping entry without full file content")
		return nil
	case strings.HasPrefix(line, "@@ ") && p.inPatch:
		p.closeHunk()
		p.openHunk(line)
		return nil
	case p.hunk != nil:
		p.appendHunkLine(line)
		return nil
	default:
		// Preamble before the first header, or inter-file noise such as
		// "Binary files ... differ" lines.
		return nil
	}
}

func (p *parser) startHeader(line string, rest int) {
	p.inHeader = true
	p.remaining = rest
	p.header = []string{line}
}

func (p *parser) collectHeader(line string) error {
	for _, prefix := range headerMetadataPrefixes {
		if strings.HasPrefix(line, prefix) {
			p.header = append(p.header, line)
			return nil
		}
	}
	p.header = append(p.header, line)
	p.remaining--
	if p.remaining > 0 {
		return nil
	}
	return p.completeHeader()
}

// completeHeader extracts the file path from the last collected header line,
// registers the file record, and evaluates the path predicate once.
func (p *parser) completeHeader() error {
	p.inHeader = false
	last := p.header[len(p.header)-1]
	fields := strings.Fields(last)
	if len(fields) < 2 {
		return &ParseError{Code: CodeHeaderFilenameMissing, Line: p.lineNo, Text: last}
	}
	path := stripFirstSegment(fields[1])

	file, ok := p.doc.Files[path]
	if ok {
		// A path appearing twice keeps its original header block so every
		// hunk stays reachable from exactly one record.
		p.warn(p.lineNo, last, "duplicate file header merged into earlier record")
	} else {
		file = &FileRecord{Path: path, Header: p.header}
		p.doc.Files[path] = file
	}
	p.header = nil
	p.file = file
	p.inPatch = true

	if p.opts.Filter.MatchPath(path) {
		p.matches.MarkPath(path)
	}
	return nil
}

// stripFirstSegment removes the leading path component when more than one
// segment exists, mirroring the patch-apply "strip one directory level"
// convention ("b/foo.c" becomes "foo.c").
func stripFirstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 && i+1 < len(path) {
		return path[i+1:]
	}
	return path
}

func (p *parser) openHunk(line string) {
	if p.file == nil {
		p.warn(p.lineNo, line, "hunk header outside any file")
		return
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		p.warn(p.lineNo, line, "malformed hunk header")
		if p.hunk != nil {
			p.hunk.Lines = append(p.hunk.Lines, line)
		}
		return
	}
	h := &Hunk{
		ID:       p.nextID,
		Path:     p.file.Path,
		OldRange: fields[1],
		NewRange: fields[2],
		Lines:    []string{line},
	}
	p.nextID++
	p.doc.register(p.file, h)
	p.hunk = h
}

// closeHunk seals the current hunk, if any, and evaluates the content
// predicate against it immediately rather than in a second pass.
func (p *parser) closeHunk() {
	h := p.hunk
	if h == nil {
		return
	}
	p.hunk = nil

	if p.opts.Filter.ContentActive() {
		if p.opts.Filter.MatchHunk(h) {
			p.matches.MarkHunk(h.ID)
		}
		return
	}
	if p.opts.RewriteActive {
		p.matches.MarkHunk(h.ID)
	}
}

// appendHunkLine classifies and stores one line of the current hunk. Every
// line is kept verbatim so rewritten output stays faithful; only additions
// and removals contribute to the change counts.
func (p *parser) appendHunkLine(line string) {
	h := p.hunk
	switch {
	case line == "":
		h.Lines = append(h.Lines, line)
	case strings.HasPrefix(line, `\ `):
		// "\ No newline at end of file": structural marker, not a change.
		h.Lines = append(h.Lines, line)
	case line[0] == '+':
		h.Added++
		h.Lines = append(h.Lines, line)
	case line[0] == '-':
		h.Removed++
		h.Lines = append(h.Lines, line)
	case line[0] == ' ':
		h.Lines = append(h.Lines, line)
	case strings.HasPrefix(line, "Binary files ") && strings.HasSuffix(line, " differ"):
		h.Lines = append(h.Lines, line)
	default:
		p.warn(p.lineNo, line, "unrecognized line inside hunk")
		h.Lines = append(h.Lines, line)
	}
}

func (p *parser) warn(line int, text, message string) {
	p.doc.Warnings = append(p.doc.Warnings, Warning{Line: line, Text: text, Message: message})
}
