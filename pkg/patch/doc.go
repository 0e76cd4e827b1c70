// Package patch parses unified-diff text into a structured document model and
// supports filtering, reporting, rewriting, and comparing the result.
//
// The package is the reusable core behind the patchscope CLI. It exposes
// primitives to parse a line stream into a Document, select hunks by path and
// content predicates, render summary reports, emit a matching subset as a new
// syntactically valid patch, and compare two documents by per-file aggregate
// statistics.
package patch
