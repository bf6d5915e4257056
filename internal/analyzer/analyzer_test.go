package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codescope-mcp/internal/searcher"
	"github.com/dshills/codescope-mcp/pkg/types"
)

const pythonSample = `import os

# entry point
def main():
    if True:
        run()

class Service:
    def handle(self, req):
        for item in req:
            if item and valid(item):
                yield item
`

// pythonSampleResult hand-builds the parse result for pythonSample so the
// test pins metrics arithmetic without involving the parser.
func pythonSampleResult() *types.ParseResult {
	return &types.ParseResult{
		Language: "python",
		Declarations: []types.Declaration{
			{Name: "main", Kind: types.KindFunction, File: "app.py", Line: 4, EndLine: 6, Signature: "def main():", Language: "python"},
			{Name: "Service", Kind: types.KindClass, File: "app.py", Line: 8, EndLine: 12, Language: "python"},
			{Name: "handle", Kind: types.KindMethod, File: "app.py", Line: 9, EndLine: 12, Enclosing: "Service", Signature: "def handle(self, req):", Language: "python"},
		},
		Imports: []types.ImportRecord{
			{File: "app.py", Name: "os", Module: "os", Statement: "import os", Line: 1},
		},
	}
}

func TestAnalyzeFile_Python(t *testing.T) {
	a := New(searcher.NewEngine())
	metrics := a.AnalyzeFile("python", pythonSample, pythonSampleResult())

	assert.Equal(t, "python", metrics.Language)
	assert.Equal(t, 12, metrics.LinesTotal)
	assert.Equal(t, 9, metrics.LinesCode)
	assert.Equal(t, 2, metrics.LinesBlank)
	assert.Equal(t, 1, metrics.LinesComment)

	// if + for + if + and
	assert.Equal(t, 4, metrics.Complexity)

	require.Equal(t, 2, metrics.FunctionCount())
	assert.Equal(t, "main", metrics.Functions[0].Name)
	assert.Equal(t, 4, metrics.Functions[0].Line)
	assert.Equal(t, 2, metrics.Functions[0].Complexity)
	assert.Equal(t, "handle", metrics.Functions[1].Name)
	assert.Equal(t, 4, metrics.Functions[1].Complexity)

	require.Equal(t, 1, metrics.ClassCount())
	assert.Equal(t, "Service", metrics.Classes[0].Name)
	assert.Equal(t, []string{"handle"}, metrics.Classes[0].Methods)

	require.Equal(t, 1, metrics.ImportCount())
	assert.Equal(t, "os", metrics.Imports[0].Name)
}

func TestAnalyzeFile_GoOperators(t *testing.T) {
	src := "package main\n\nfunc check(a, b bool) bool {\n\tif a && b {\n\t\treturn true\n\t}\n\treturn false\n}\n"
	result := &types.ParseResult{
		Language: "go",
		Declarations: []types.Declaration{
			{Name: "check", Kind: types.KindFunction, File: "main.go", Line: 3, EndLine: 8, Language: "go"},
		},
	}

	a := New(searcher.NewEngine())
	metrics := a.AnalyzeFile("go", src, result)

	// if + &&
	assert.Equal(t, 2, metrics.Complexity)
	require.Equal(t, 1, metrics.FunctionCount())
	assert.Equal(t, 3, metrics.Functions[0].Complexity)
}

func TestAnalyzeFile_NilResult(t *testing.T) {
	a := New(searcher.NewEngine())
	metrics := a.AnalyzeFile("", "# note\n\nplain text\n", nil)

	assert.Equal(t, 3, metrics.LinesTotal)
	assert.Equal(t, 1, metrics.LinesCode)
	assert.Equal(t, 1, metrics.LinesBlank)
	assert.Equal(t, 1, metrics.LinesComment)
	assert.Empty(t, metrics.Functions)
	assert.Empty(t, metrics.Classes)
	assert.Empty(t, metrics.Imports)
}

func TestAnalyzeFile_Idempotent(t *testing.T) {
	a := New(searcher.NewEngine())

	first := a.AnalyzeFile("python", pythonSample, pythonSampleResult())
	second := a.AnalyzeFile("python", pythonSample, pythonSampleResult())
	assert.Equal(t, first, second)
}

func TestAnalyzeFile_UnknownSpanComplexity(t *testing.T) {
	src := "def branchy():\n    if a:\n        if b:\n            pass\n"
	result := &types.ParseResult{
		Language: "python",
		Declarations: []types.Declaration{
			// Lexical-tier extraction: span unknown
			{Name: "branchy", Kind: types.KindFunction, File: "x.py", Line: 1, EndLine: 0, Language: "python"},
		},
	}

	a := New(searcher.NewEngine())
	metrics := a.AnalyzeFile("python", src, result)

	require.Equal(t, 1, metrics.FunctionCount())
	assert.Equal(t, 1, metrics.Functions[0].Complexity)
	assert.Equal(t, 2, metrics.Complexity, "file-level count still sees the branches")
}

func TestAnalyzeFile_SpanClampedToFile(t *testing.T) {
	src := "def f():\n    if a:\n        pass\n"
	result := &types.ParseResult{
		Language: "python",
		Declarations: []types.Declaration{
			{Name: "f", Kind: types.KindFunction, File: "x.py", Line: 1, EndLine: 99, Language: "python"},
		},
	}

	a := New(searcher.NewEngine())
	metrics := a.AnalyzeFile("python", src, result)

	require.Equal(t, 1, metrics.FunctionCount())
	assert.Equal(t, 2, metrics.Functions[0].Complexity)
}

// fakeImports is an ImportSource over a fixed per-file record map
type fakeImports map[string][]types.ImportRecord

func (f fakeImports) ImportingFiles() []string {
	files := make([]string, 0, len(f))
	for path := range f {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

func (f fakeImports) ImportsByFile(path string) []types.ImportRecord {
	return f[path]
}

func TestAnalyzeImports(t *testing.T) {
	source := fakeImports{
		"a.py": {
			{File: "a.py", Name: "os", Module: "os", Line: 1},
			{File: "a.py", Name: "Path", Module: "pathlib", Line: 2},
		},
		"b.py": {
			{File: "b.py", Name: "requests", Module: "requests", Alias: "rq", Line: 1},
		},
		"pkg/c.py": {
			{File: "pkg/c.py", Name: "os", Module: "os", Line: 1},
		},
	}

	a := New(searcher.NewEngine())
	report := a.AnalyzeImports(source, "")

	assert.Equal(t, 3, report.FileCount)
	assert.Equal(t, 4, report.ImportCount)
	assert.Equal(t, []string{"os", "pathlib", "requests"}, report.Dependencies)

	require.Len(t, report.Files, 3)
	assert.Equal(t, "a.py", report.Files[0].File)
	assert.Len(t, report.Files[0].Imports, 2)
}

func TestAnalyzeImports_Scope(t *testing.T) {
	source := fakeImports{
		"a.py":     {{File: "a.py", Name: "os", Module: "os", Line: 1}},
		"pkg/c.py": {{File: "pkg/c.py", Name: "json", Module: "json", Line: 1}},
	}

	a := New(searcher.NewEngine())
	report := a.AnalyzeImports(source, "pkg")

	assert.Equal(t, 1, report.FileCount)
	assert.Equal(t, []string{"json"}, report.Dependencies)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "pkg/c.py", report.Files[0].File)
}

func TestAnalyzeImports_Empty(t *testing.T) {
	a := New(searcher.NewEngine())
	report := a.AnalyzeImports(fakeImports{}, "")

	assert.Equal(t, 0, report.FileCount)
	assert.Equal(t, 0, report.ImportCount)
	assert.Empty(t, report.Dependencies)
	assert.Empty(t, report.Files)
}

func TestAnalyzeImports_ModuleFallsBackToName(t *testing.T) {
	source := fakeImports{
		"a.py": {{File: "a.py", Name: "sys", Line: 1}},
	}

	a := New(searcher.NewEngine())
	report := a.AnalyzeImports(source, "")

	assert.Equal(t, []string{"sys"}, report.Dependencies)
}

func writePatternTree(t *testing.T, files map[string]string, codeFlags map[string]bool) (string, []types.FileRecord) {
	t.Helper()

	root := t.TempDir()
	records := make([]types.FileRecord, 0, len(files))
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		records = append(records, types.FileRecord{Path: rel, CodeFile: codeFlags[rel]})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return root, records
}

func TestFindCodePatterns(t *testing.T) {
	root, files := writePatternTree(t,
		map[string]string{
			"app.py":    "def make_handler():\n    pass\n",
			"README.md": "def looks_like_code():\n",
		},
		map[string]bool{"app.py": true, "README.md": false},
	)

	a := New(searcher.NewEngine())
	resp, err := a.FindCodePatterns(context.Background(), root, files, `def \w+_handler`, "", "", 50)
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "app.py", resp.Matches[0].File)
}

func TestFindCodePatterns_ExplicitGlobOverridesCodeDefault(t *testing.T) {
	root, files := writePatternTree(t,
		map[string]string{
			"app.py":    "target\n",
			"README.md": "target\n",
		},
		map[string]bool{"app.py": true, "README.md": false},
	)

	a := New(searcher.NewEngine())
	resp, err := a.FindCodePatterns(context.Background(), root, files, "target", "", "*.md", 50)
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "README.md", resp.Matches[0].File)
}

func TestFindCodePatterns_InvalidPattern(t *testing.T) {
	root, files := writePatternTree(t,
		map[string]string{"app.py": "x\n"},
		map[string]bool{"app.py": true},
	)

	a := New(searcher.NewEngine())
	_, err := a.FindCodePatterns(context.Background(), root, files, "(unclosed", "", "", 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidQuery)
}

func TestProfileFor_UnknownLanguageUsesDefault(t *testing.T) {
	assert.Same(t, defaultProfile, profileFor("cobol"))
	assert.NotSame(t, defaultProfile, profileFor("python"))
}

func TestProfile_RubyWordsAndOperators(t *testing.T) {
	prof := profileFor("ruby")

	assert.Equal(t, 2, prof.branchCount("if ready and valid"))
	assert.Equal(t, 2, prof.branchCount("x = a && b || c"))
	assert.Equal(t, 0, prof.branchCount("performance = format(orders)"),
		"keywords inside identifiers must not count")
}
