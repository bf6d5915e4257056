package analyzer

import (
	"context"
	"sort"

	"github.com/dshills/codescope-mcp/internal/searcher"
	"github.com/dshills/codescope-mcp/internal/textutil"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// ImportSource exposes the per-file import records the symbol index holds.
// The index satisfies this.
type ImportSource interface {
	ImportingFiles() []string
	ImportsByFile(path string) []types.ImportRecord
}

// FileImports groups one file's import records
type FileImports struct {
	File    string
	Imports []types.ImportRecord
}

// ImportReport aggregates imports across a scope into a per-file listing
// plus the project-level dependency set.
type ImportReport struct {
	Scope        string
	Files        []FileImports
	Dependencies []string // Sorted, de-duplicated module names
	FileCount    int
	ImportCount  int
}

// Analyzer computes per-file metrics, import reports, and code-pattern
// scans. It is stateless; parsed units and inventories come from the
// session so results always describe the active project.
type Analyzer struct {
	engine *searcher.Engine
}

// New creates an Analyzer on top of a search engine
func New(engine *searcher.Engine) *Analyzer {
	return &Analyzer{engine: engine}
}

// AnalyzeFile computes metrics for one file from its decoded text and its
// parsed unit. result may be nil for files no parser recognizes; metrics
// then cover line classes and complexity only. Metrics are a pure function
// of the inputs: an unchanged file analyzes to identical results.
func (a *Analyzer) AnalyzeFile(language, text string, result *types.ParseResult) *types.FileMetrics {
	if result != nil && result.Language != "" {
		language = result.Language
	}
	prof := profileFor(language)
	lines := textutil.Lines(text)

	code, blank, comment := prof.classify(lines)
	metrics := &types.FileMetrics{
		Language:     language,
		LinesTotal:   len(lines),
		LinesCode:    code,
		LinesBlank:   blank,
		LinesComment: comment,
		Functions:    make([]types.FunctionMetric, 0),
		Classes:      make([]types.ClassMetric, 0),
		Imports:      make([]types.ImportRecord, 0),
		Complexity:   prof.complexityOf(lines),
	}
	if result == nil {
		return metrics
	}

	methodsByClass := make(map[string][]string)
	for _, d := range result.Declarations {
		switch d.Kind {
		case types.KindFunction, types.KindMethod:
			metrics.Functions = append(metrics.Functions, types.FunctionMetric{
				Name:       d.Name,
				Line:       d.Line,
				Signature:  d.Signature,
				Complexity: functionComplexity(prof, lines, d),
			})
			if d.Kind == types.KindMethod && d.Enclosing != "" {
				methodsByClass[d.Enclosing] = append(methodsByClass[d.Enclosing], d.Name)
			}
		case types.KindClass:
			metrics.Classes = append(metrics.Classes, types.ClassMetric{
				Name: d.Name,
				Line: d.Line,
			})
		}
	}
	for i := range metrics.Classes {
		metrics.Classes[i].Methods = methodsByClass[metrics.Classes[i].Name]
	}
	metrics.Imports = append(metrics.Imports, result.Imports...)

	return metrics
}

// functionComplexity is 1 plus the branch tokens inside the declaration's
// line span. Declarations without a known span (lexical tier) stay at 1.
func functionComplexity(prof *langProfile, lines []string, d types.Declaration) int {
	if d.Line < 1 || d.EndLine < d.Line {
		return 1
	}
	start, end := d.Line-1, d.EndLine
	if start >= len(lines) {
		return 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	return 1 + prof.complexityOf(lines[start:end])
}

// AnalyzeImports groups the index's import records by importing file
// within the scope and derives the dependency list. An empty scope means
// the whole project.
func (a *Analyzer) AnalyzeImports(imports ImportSource, scope string) *ImportReport {
	report := &ImportReport{
		Scope:        scope,
		Files:        make([]FileImports, 0),
		Dependencies: make([]string, 0),
	}

	deps := make(map[string]struct{})
	for _, file := range imports.ImportingFiles() {
		if !searcher.InScope(file, scope) {
			continue
		}
		recs := imports.ImportsByFile(file)
		if len(recs) == 0 {
			continue
		}

		report.Files = append(report.Files, FileImports{File: file, Imports: recs})
		report.ImportCount += len(recs)
		for _, r := range recs {
			module := r.Module
			if module == "" {
				module = r.Name
			}
			deps[module] = struct{}{}
		}
	}

	report.FileCount = len(report.Files)
	for module := range deps {
		report.Dependencies = append(report.Dependencies, module)
	}
	sort.Strings(report.Dependencies)
	return report
}

// FindCodePatterns runs a regex scan restricted to code files. An explicit
// fileGlob overrides the code-only default so callers can widen or narrow
// the file set.
func (a *Analyzer) FindCodePatterns(ctx context.Context, root string, files []types.FileRecord, pattern, scope, fileGlob string, maxResults int) (*searcher.Response, error) {
	return a.engine.Search(ctx, root, files, pattern, searcher.Options{
		Regex:         true,
		CaseSensitive: true,
		CodeOnly:      fileGlob == "",
		FileGlob:      fileGlob,
		Scope:         scope,
		MaxResults:    maxResults,
	})
}
