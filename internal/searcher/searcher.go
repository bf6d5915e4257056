package searcher

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dshills/codescope-mcp/internal/textutil"
	"github.com/dshills/codescope-mcp/pkg/types"
)

const (
	// DefaultMaxResults caps a search when the caller doesn't ask for a limit
	DefaultMaxResults = 50
	// MaxResultsLimit is the hard ceiling regardless of what the caller asks for
	MaxResultsLimit = 500
	// MaxContextLines bounds the surrounding-text window per match
	MaxContextLines = 10
)

// Options contains parameters for a pattern search
type Options struct {
	Regex         bool   // Treat the query as a regular expression instead of a literal
	CaseSensitive bool   // Match case exactly
	WholeWord     bool   // Require non-identifier characters on both sides
	FileGlob      string // Comma-separated glob list; empty or "*" means all files
	ContextLines  int    // Lines of surrounding text per match (capped at MaxContextLines)
	MaxResults    int    // Result cap (default DefaultMaxResults, capped at MaxResultsLimit)
	Scope         string // Restrict the scan to a subtree, relative to the root
	CodeOnly      bool   // Scan only files the parser recognizes as code
}

// Response contains search results and metadata
type Response struct {
	Matches   []types.SearchMatch
	FileCount int  // Files with at least one match
	Truncated bool // True when the cap stopped the scan early
	Duration  time.Duration
	Warnings  []string
}

// Engine scans project files for patterns. Scans read live file content,
// so results reflect the tree as it is now, not as it was indexed.
type Engine struct{}

// NewEngine creates a new search Engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compile turns a query plus options into a matcher. A malformed regular
// expression reports ErrInvalidQuery rather than escaping as a raw
// regexp error.
func Compile(query string, opts Options) (*regexp.Regexp, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", types.ErrInvalidQuery)
	}

	expr := query
	if !opts.Regex {
		expr = regexp.QuoteMeta(query)
	}
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}
	if !opts.CaseSensitive {
		expr = `(?i)` + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidQuery, err)
	}
	return re, nil
}

// Search scans the given inventory under root for the query. One match is
// reported per matching line. The scan short-circuits once MaxResults
// matches are collected; unreadable files become warnings, not failures.
func (e *Engine) Search(ctx context.Context, root string, files []types.FileRecord, query string, opts Options) (*Response, error) {
	startTime := time.Now()

	re, err := Compile(query, opts)
	if err != nil {
		return nil, err
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}
	contextLines := opts.ContextLines
	if contextLines < 0 {
		contextLines = 0
	}
	if contextLines > MaxContextLines {
		contextLines = MaxContextLines
	}

	resp := &Response{
		Matches:  make([]types.SearchMatch, 0),
		Warnings: make([]string, 0),
	}

	seen := make(map[string]struct{})

scan:
	for _, record := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.CodeOnly && !record.CodeFile {
			continue
		}
		if !InScope(record.Path, opts.Scope) {
			continue
		}
		if !matchGlob(record.Path, opts.FileGlob) {
			continue
		}

		lines, skip, warn := readLines(root, record.Path)
		if warn != "" {
			resp.Warnings = append(resp.Warnings, warn)
			continue
		}
		if skip {
			continue
		}

		for i, line := range lines {
			loc := re.FindStringIndex(line)
			if loc == nil {
				continue
			}

			match := types.SearchMatch{
				File:   record.Path,
				Line:   i + 1,
				Column: loc[0] + 1,
				Text:   line,
			}
			if contextLines > 0 {
				match.ContextBefore = contextWindow(lines, i-contextLines, i)
				match.ContextAfter = contextWindow(lines, i+1, i+1+contextLines)
			}

			resp.Matches = append(resp.Matches, match)
			seen[record.Path] = struct{}{}

			if len(resp.Matches) >= maxResults {
				resp.Truncated = true
				break scan
			}
		}
	}

	resp.FileCount = len(seen)
	resp.Duration = time.Since(startTime)
	return resp, nil
}

// InScope reports whether a relative path falls inside the scope subtree.
// An empty scope means the whole project.
func InScope(relPath, scope string) bool {
	if scope == "" || scope == "." {
		return true
	}
	scope = path.Clean(filepath.ToSlash(scope))
	if scope == "." {
		return true
	}
	return relPath == scope || strings.HasPrefix(relPath, scope+"/")
}

// matchGlob tests a relative path against a comma-separated glob list.
// Patterns without a slash match the base name, patterns with one match
// the whole relative path.
func matchGlob(relPath, globs string) bool {
	globs = strings.TrimSpace(globs)
	if globs == "" || globs == "*" {
		return true
	}

	base := path.Base(relPath)
	for _, pattern := range strings.Split(globs, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		target := base
		if strings.Contains(pattern, "/") {
			target = relPath
		}
		if ok, err := path.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}

// readLines loads one file for scanning. Binary files are skipped quietly;
// unreadable files produce a warning string for the response.
func readLines(root, relPath string) (lines []string, skip bool, warning string) {
	data, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		return nil, false, fmt.Sprintf("%s: %v", relPath, err)
	}

	// Binary content is skipped quietly rather than warned about
	text, _, err := textutil.Decode(data)
	if err != nil {
		return nil, true, ""
	}
	return textutil.Lines(text), false, ""
}

// contextWindow slices [from, to) clamped to the line range
func contextWindow(lines []string, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return nil
	}
	window := make([]string, to-from)
	copy(window, lines[from:to])
	return window
}
