package types

import "time"

// FileRecord describes one file in the project inventory snapshot.
// Records are created on inventory scan and refreshed on demand; a changed
// file is entirely re-parsed, never patched.
type FileRecord struct {
	Path     string // Relative to project root, slash-separated
	Language string // Parser language tag; empty when no strategy recognizes the extension
	CodeFile bool   // Counts as a code file for listing and search defaults
	Size     int64
	ModTime  time.Time
}

// SearchMatch represents a single pattern-search hit with optional context
type SearchMatch struct {
	File   string
	Line   int // 1-indexed
	Column int // 1-indexed byte offset of the match on the line
	Text   string

	// Context windows; nil when not requested or empty at a file edge
	ContextBefore []string
	ContextAfter  []string
}

// MatchKind classifies a reference match against the symbol index
type MatchKind string

const (
	MatchDeclaration MatchKind = "declaration"
	MatchReference   MatchKind = "reference"
)

// ReferenceMatch represents one lexical occurrence of a symbol name.
// Transient: computed per query and never cached, because project text
// may change between calls.
type ReferenceMatch struct {
	File   string
	Line   int
	Column int
	Text   string
	Kind   MatchKind
}

// FunctionMetric describes one declared function or method in a file
type FunctionMetric struct {
	Name      string
	Line      int
	Signature string
	// Complexity is 1 plus the branching/loop keyword occurrences inside
	// the function's span, or 1 when the span is unknown.
	Complexity int
}

// ClassMetric describes one declared class-like construct in a file
type ClassMetric struct {
	Name    string
	Line    int
	Methods []string
}

// FileMetrics aggregates per-file analysis results. Metrics are a pure
// function of the file's current text: analyzing an unmodified file twice
// yields identical results.
type FileMetrics struct {
	Language     string
	LinesTotal   int
	LinesCode    int
	LinesBlank   int
	LinesComment int
	Functions    []FunctionMetric
	Classes      []ClassMetric
	Imports      []ImportRecord

	// Complexity counts branching/loop keyword occurrences in the whole
	// file. A proxy metric, not certified cyclomatic complexity.
	Complexity int
}

// FunctionCount returns the number of declared functions and methods
func (m *FileMetrics) FunctionCount() int { return len(m.Functions) }

// ClassCount returns the number of declared class-like constructs
func (m *FileMetrics) ClassCount() int { return len(m.Classes) }

// ImportCount returns the number of import records
func (m *FileMetrics) ImportCount() int { return len(m.Imports) }
