package patch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const indexPatch = `Index: proj/bar.c
===================================================================
--- proj/bar.c	(revision 1)
+++ proj/bar.c	(working copy)
@@ -1,2 +1,2 @@
-old
+new
 ctx
`

const barePatch = `--- a/hello.txt	2024-01-01
+++ b/hello.txt	2024-01-02
@@ -1 +1 @@
-hi
+ho
`

func TestRewriteRoundTripAllDialects(t *testing.T) {
	t.Parallel()

	for name, input := range map[string]string{
		"git":   gitPatch,
		"index": indexPatch,
		"bare":  barePatch,
	} {
		doc, matches := parseString(t, input, Options{RewriteActive: true})
		var out strings.Builder
		if err := Rewrite(&out, doc, matches); err != nil {
			t.Fatalf("%s: Rewrite returned error: %v", name, err)
		}
		if out.String() != input {
			t.Fatalf("%s round trip diverged:\n got %q\nwant %q", name, out.String(), input)
		}
	}
}

func TestRewriteRoundTripKeepsNoNewlineMarker(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"diff --git a/t.txt b/t.txt",
		"--- a/t.txt",
		"+++ b/t.txt",
		"@@ -1,1 +1,1 @@",
		"-a",
		"+b",
		`\ No newline at end of file`,
		"",
	}, "\n")

	doc, matches := parseString(t, input, Options{RewriteActive: true})
	var out strings.Builder
	if err := Rewrite(&out, doc, matches); err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if out.String() != input {
		t.Fatalf("marker round trip diverged:\n got %q\nwant %q", out.String(), input)
	}
}

func TestRewriteEmitsOnlyMatchedHunks(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"diff --git a/m.c b/m.c",
		"--- a/m.c",
		"+++ b/m.c",
		"@@ -1,1 +1,1 @@",
		"-boring",
		"+still boring",
		"@@ -10,1 +10,1 @@",
		"-target old",
		"+target new",
		"diff --git a/other.c b/other.c",
		"--- a/other.c",
		"+++ b/other.c",
		"@@ -1,1 +1,1 @@",
		"-nothing",
		"+relevant",
		"",
	}, "\n")

	opts := Options{Filter: mustFilter(t, "", "target"), RewriteActive: true}
	doc, matches := parseString(t, input, opts)
	var out strings.Builder
	if err := Rewrite(&out, doc, matches); err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	want := strings.Join([]string{
		"diff --git a/m.c b/m.c",
		"--- a/m.c",
		"+++ b/m.c",
		"@@ -10,1 +10,1 @@",
		"-target old",
		"+target new",
		"",
	}, "\n")
	if out.String() != want {
		t.Fatalf("filtered rewrite:\n got %q\nwant %q", out.String(), want)
	}
	if strings.Contains(out.String(), "other.c") {
		t.Fatalf("files with no surviving hunks must be omitted, headers included")
	}
}

func TestRewritePathOnlyFilterUsesPassThrough(t *testing.T) {
	t.Parallel()

	input := gitPatch + indexPatch
	opts := Options{Filter: mustFilter(t, `^foo\.c$`, ""), RewriteActive: true}
	doc, matches := parseString(t, input, opts)
	var out strings.Builder
	if err := Rewrite(&out, doc, matches); err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if out.String() != gitPatch {
		t.Fatalf("path-only rewrite:\n got %q\nwant %q", out.String(), gitPatch)
	}
}

func TestRewriteUnmatchedPathFilterYieldsEmptyOutput(t *testing.T) {
	t.Parallel()

	opts := Options{Filter: mustFilter(t, "zzz", ""), RewriteActive: true}
	doc, matches := parseString(t, gitPatch, opts)
	var out strings.Builder
	if err := Rewrite(&out, doc, matches); err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if out.String() != "" {
		t.Fatalf("unmatched filter must produce empty, header-less output, got %q", out.String())
	}
}

func TestRewriteToFile(t *testing.T) {
	t.Parallel()

	doc, matches := parseString(t, gitPatch, Options{RewriteActive: true})
	target := filepath.Join(t.TempDir(), "subset.diff")
	if err := RewriteTo(target, doc, matches); err != nil {
		t.Fatalf("RewriteTo returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read rewritten patch: %v", err)
	}
	if string(data) != gitPatch {
		t.Fatalf("file round trip diverged:\n got %q\nwant %q", string(data), gitPatch)
	}
}
