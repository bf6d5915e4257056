package searcher

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// DeclarationSource answers whether a symbol is declared at a position.
// The symbol index satisfies this.
type DeclarationSource interface {
	DeclaresAt(file string, line int, name string) bool
}

// ReferenceOptions narrows a reference scan
type ReferenceOptions struct {
	Scope      string // Restrict the scan to a subtree, relative to the root
	MaxResults int    // Result cap (default DefaultMaxResults, capped at MaxResultsLimit)
}

// ReferenceResponse contains reference matches and metadata
type ReferenceResponse struct {
	Matches   []types.ReferenceMatch
	FileCount int  // Files with at least one occurrence
	Truncated bool // True when the cap stopped the scan early
	Duration  time.Duration
	Warnings  []string
}

// FindReferences scans the inventory for whole-word occurrences of a symbol
// name and classifies each one. A line that carries a known declaration of
// the name counts as a declaration site; every other occurrence is a
// reference. This is lexical, not semantic: shadowed names in different
// scopes are indistinguishable, and over-reporting is preferred to missing
// a use. Zero occurrences is a valid empty result, not an error.
func (e *Engine) FindReferences(ctx context.Context, root string, files []types.FileRecord, name string, decls DeclarationSource, opts ReferenceOptions) (*ReferenceResponse, error) {
	startTime := time.Now()

	if name == "" {
		return nil, fmt.Errorf("%w: empty symbol name", types.ErrInvalidQuery)
	}
	re, err := Compile(name, Options{WholeWord: true, CaseSensitive: true})
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

	resp := &ReferenceResponse{
		Matches:  make([]types.ReferenceMatch, 0),
		Warnings: make([]string, 0),
	}

	seen := make(map[string]struct{})

scan:
	for _, record := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !record.CodeFile {
			continue
		}
		if !InScope(record.Path, opts.Scope) {
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
			locs := re.FindAllStringIndex(line, -1)
			if locs == nil {
				continue
			}

			kind := types.MatchReference
			if decls != nil && decls.DeclaresAt(record.Path, i+1, name) {
				kind = types.MatchDeclaration
			}

			for _, loc := range locs {
				resp.Matches = append(resp.Matches, types.ReferenceMatch{
					File:   record.Path,
					Line:   i + 1,
					Column: loc[0] + 1,
					Text:   line,
					Kind:   kind,
				})
				seen[record.Path] = struct{}{}

				if len(resp.Matches) >= maxResults {
					resp.Truncated = true
					break scan
				}
			}
		}
	}

	resp.FileCount = len(seen)
	resp.Duration = time.Since(startTime)
	return resp, nil
}
