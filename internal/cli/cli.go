// Package cli wires flags, environment defaults, and mode dispatch around the
// patch core.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/asynkron/patchscope/internal/logging"
	"github.com/asynkron/patchscope/internal/preset"
	"github.com/asynkron/patchscope/internal/tui"
	"github.com/asynkron/patchscope/pkg/patch"
)

// Run executes patchscope with the provided CLI arguments. It returns a
// POSIX-style exit code: 0 on success, 1 for fatal input or parse failures,
// 2 for usage errors.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced to help with debugging.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
			return 1
		}
	}

	defaultForce := envBool("PATCHSCOPE_FORCE")
	defaultLogLevel := os.Getenv("PATCHSCOPE_LOG_LEVEL")
	if defaultLogLevel == "" {
		defaultLogLevel = "warn"
	}

	flagSet := flag.NewFlagSet("patchscope", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	pathPattern := flagSet.String("path", "", "only consider files whose normalized path matches this regular expression")
	invertPath := flagSet.Bool("invert-path", false, "invert the -path predicate")
	match := flagSet.String("match", "", "select hunks whose added or removed lines match this regular expression")
	match2 := flagSet.String("match2", "", "secondary content pattern combined with -match")
	orCombine := flagSet.Bool("or", false, "combine -match and -match2 with OR instead of AND")
	invertMatch := flagSet.Bool("invert-match", false, "invert the combined content predicate")
	output := flagSet.String("output", "", "write the matching subset as a new patch to this file (- for stdout)")
	force := flagSet.Bool("force", defaultForce, "continue past 'Only in' lines instead of failing")
	verbose := flagSet.Bool("verbose", false, "list every hunk in the summary report")
	statOnly := flagSet.Bool("stat", false, "print a diffstat-style report only")
	listOnly := flagSet.Bool("list", false, "print matching file paths only")
	matchReport := flagSet.Bool("matches", false, "print the pattern-match report")
	compare := flagSet.Bool("compare", false, "compare two patches by per-file aggregate statistics")
	pick := flagSet.Bool("pick", false, "interactively pick hunks to extract (requires a terminal)")
	presetPath := flagSet.String("preset", "", "load filter settings from a JSON preset file")
	docs := flagSet.Bool("docs", false, "render the manual and exit")
	logLevel := flagSet.String("log-level", defaultLogLevel, "minimum log level (debug, info, warn, error)")

	if err := flagSet.Parse(args); err != nil {
		return 2
	}

	logger := logging.NewStdLogger(logging.ParseLevel(*logLevel), stderr)

	if *docs {
		if err := renderDocs(stdout); err != nil {
			logger.Error("failed to render docs", err)
			return 1
		}
		return 0
	}

	if *compare {
		if flagSet.NArg() != 2 {
			fmt.Fprintln(stderr, "-compare requires exactly two patch files")
			return 2
		}
		deltas, err := patch.CompareFiles(flagSet.Arg(0), flagSet.Arg(1))
		if err != nil {
			logger.Error("comparison failed", err)
			return 1
		}
		if err := patch.WriteDeltas(stdout, deltas); err != nil {
			logger.Error("failed to write comparison report", err)
			return 1
		}
		return 0
	}

	filter, err := buildFilter(*pathPattern, *invertPath, *match, *match2, *orCombine, *invertMatch, *presetPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	input := "-"
	switch flagSet.NArg() {
	case 0:
	case 1:
		input = flagSet.Arg(0)
	default:
		fmt.Fprintln(stderr, "at most one patch file may be given")
		return 2
	}

	opts := patch.Options{
		Filter:        filter,
		Force:         *force,
		RewriteActive: *output != "" || *pick,
	}
	doc, matches, err := patch.ParseFile(input, opts)
	if err != nil {
		logger.Error("parse failed", err, logging.Field("input", input))
		return 1
	}
	for _, w := range doc.Warnings {
		logger.Warn(w.Message, logging.Field("line", w.Line), logging.Field("text", w.Text))
	}

	if *pick {
		selection, confirmed, err := tui.Pick(ctx, doc, matches)
		if err != nil {
			logger.Error("picker failed", err)
			return 1
		}
		if !confirmed {
			return 0
		}
		target := *output
		if target == "" {
			target = "-"
		}
		if err := writeRewrite(target, stdout, doc, selection); err != nil {
			logger.Error("rewrite failed", err, logging.Field("target", target))
			return 1
		}
		return 0
	}

	if *output != "" {
		if err := writeRewrite(*output, stdout, doc, matches); err != nil {
			logger.Error("rewrite failed", err, logging.Field("target", *output))
			return 1
		}
		return 0
	}

	switch {
	case *statOnly:
		err = patch.WriteDiffstat(stdout, doc, matches)
	case *listOnly:
		err = patch.WriteFileList(stdout, doc, matches)
	case *matchReport:
		err = patch.WriteMatches(stdout, doc, matches)
	default:
		err = patch.WriteSummary(stdout, doc, matches, *verbose)
	}
	if err != nil {
		logger.Error("failed to write report", err)
		return 1
	}
	return 0
}

// buildFilter merges explicit flags over any preset and compiles the
// patterns. Flags win field by field so a preset can be partially overridden.
func buildFilter(pathPattern string, invertPath bool, match, match2 string, orCombine, invertMatch bool, presetPath string) (*patch.Filter, error) {
	filter := &patch.Filter{
		InvertPath:    invertPath,
		InvertContent: invertMatch,
	}
	if orCombine {
		filter.Combine = patch.CombineOr
	}

	if presetPath != "" {
		pre, err := preset.Load(presetPath)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", presetPath, err)
		}
		base, err := pre.Filter()
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", presetPath, err)
		}
		filter.Path = base.Path
		filter.Content = base.Content
		filter.Content2 = base.Content2
		if !orCombine {
			filter.Combine = base.Combine
		}
		filter.InvertPath = invertPath || base.InvertPath
		filter.InvertContent = invertMatch || base.InvertContent
	}

	var err error
	if pathPattern != "" {
		if filter.Path, err = regexp.Compile(pathPattern); err != nil {
			return nil, fmt.Errorf("invalid -path pattern: %w", err)
		}
	}
	if match != "" {
		if filter.Content, err = regexp.Compile(match); err != nil {
			return nil, fmt.Errorf("invalid -match pattern: %w", err)
		}
	}
	if match2 != "" {
		if filter.Content2, err = regexp.Compile(match2); err != nil {
			return nil, fmt.Errorf("invalid -match2 pattern: %w", err)
		}
	}
	return filter, nil
}

// writeRewrite sends the matching subset to the target, using the provided
// stdout writer for the "-" sentinel so output stays testable.
func writeRewrite(target string, stdout io.Writer, doc *patch.Document, matches *patch.MatchSet) error {
	if target == "-" {
		return patch.Rewrite(stdout, doc, matches)
	}
	return patch.RewriteTo(target, doc, matches)
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
