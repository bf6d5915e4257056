package indexer

import (
	"sort"
	"strings"
	"time"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// declKey identifies a declaration position for reference classification
type declKey struct {
	file string
	line int
	name string
}

// Index is an immutable snapshot of every declaration and import in the
// project. Builds produce a fresh Index and the session swaps it in
// atomically, so readers never observe a half-built state.
type Index struct {
	decls   []types.Declaration // sorted by file, line, column, name
	byName  map[string][]int    // exact name -> positions in decls
	byFile  map[string][]int    // file path -> positions in decls
	imports map[string][]types.ImportRecord
	declAt  map[declKey]struct{}
	builtAt time.Time
}

// builder accumulates parse results and freezes them into an Index
type builder struct {
	decls   []types.Declaration
	imports map[string][]types.ImportRecord
}

func newBuilder() *builder {
	return &builder{
		imports: make(map[string][]types.ImportRecord),
	}
}

// add merges one file's parse result into the pending index
func (b *builder) add(result *types.ParseResult) {
	b.decls = append(b.decls, result.Declarations...)
	for _, imp := range result.Imports {
		b.imports[imp.File] = append(b.imports[imp.File], imp)
	}
}

// build freezes the accumulated results into an immutable Index
func (b *builder) build() *Index {
	sort.SliceStable(b.decls, func(i, j int) bool {
		if b.decls[i].File != b.decls[j].File {
			return b.decls[i].File < b.decls[j].File
		}
		if b.decls[i].Line != b.decls[j].Line {
			return b.decls[i].Line < b.decls[j].Line
		}
		if b.decls[i].Column != b.decls[j].Column {
			return b.decls[i].Column < b.decls[j].Column
		}
		return b.decls[i].Name < b.decls[j].Name
	})

	idx := &Index{
		decls:   b.decls,
		byName:  make(map[string][]int),
		byFile:  make(map[string][]int),
		imports: b.imports,
		declAt:  make(map[declKey]struct{}, len(b.decls)),
		builtAt: time.Now(),
	}
	for i, d := range idx.decls {
		idx.byName[d.Name] = append(idx.byName[d.Name], i)
		idx.byFile[d.File] = append(idx.byFile[d.File], i)
		idx.declAt[declKey{file: d.File, line: d.Line, name: d.Name}] = struct{}{}
	}
	return idx
}

// NewIndex builds an Index directly from parse results. The indexer
// pipeline uses this; tests use it to assemble fixtures.
func NewIndex(results []*types.ParseResult) *Index {
	b := newBuilder()
	for _, r := range results {
		b.add(r)
	}
	return b.build()
}

// Lookup finds declarations by name. With exact=true only identical names
// match; otherwise the match is a case-insensitive substring test. An empty
// kind matches all kinds. Results are ordered by file path then line.
func (idx *Index) Lookup(name string, kind types.DeclKind, exact bool) []types.Declaration {
	if exact {
		positions := idx.byName[name]
		out := make([]types.Declaration, 0, len(positions))
		for _, i := range positions {
			if kind != "" && idx.decls[i].Kind != kind {
				continue
			}
			out = append(out, idx.decls[i])
		}
		return out
	}

	needle := strings.ToLower(name)
	var out []types.Declaration
	for _, d := range idx.decls {
		if kind != "" && d.Kind != kind {
			continue
		}
		if !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FindDefinition returns the defining declarations for an exact name: the
// first class, function, or method match in each file that declares it.
// A name defined in several files yields one entry per file, never
// collapsed to a single "best" answer.
func (idx *Index) FindDefinition(name string) []types.Declaration {
	seen := make(map[string]struct{})
	var out []types.Declaration
	for _, i := range idx.byName[name] {
		d := idx.decls[i]
		switch d.Kind {
		case types.KindClass, types.KindFunction, types.KindMethod:
		default:
			continue
		}
		if _, ok := seen[d.File]; ok {
			continue
		}
		seen[d.File] = struct{}{}
		out = append(out, d)
	}
	return out
}

// DeclaresAt reports whether name is declared at the given file and line.
// The reference resolver uses this to classify matches.
func (idx *Index) DeclaresAt(file string, line int, name string) bool {
	_, ok := idx.declAt[declKey{file: file, line: line, name: name}]
	return ok
}

// DeclarationsByFile returns the declarations extracted from one file,
// ordered by line
func (idx *Index) DeclarationsByFile(file string) []types.Declaration {
	positions := idx.byFile[file]
	out := make([]types.Declaration, 0, len(positions))
	for _, i := range positions {
		out = append(out, idx.decls[i])
	}
	return out
}

// ImportsByFile returns the imports recorded for one file, ordered by line
func (idx *Index) ImportsByFile(file string) []types.ImportRecord {
	return idx.imports[file]
}

// ImportingFiles returns the files that have at least one import, sorted
func (idx *Index) ImportingFiles() []string {
	files := make([]string, 0, len(idx.imports))
	for f := range idx.imports {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// DeclarationCount returns the total number of indexed declarations
func (idx *Index) DeclarationCount() int {
	return len(idx.decls)
}

// ImportCount returns the total number of indexed imports
func (idx *Index) ImportCount() int {
	n := 0
	for _, imps := range idx.imports {
		n += len(imps)
	}
	return n
}

// BuiltAt returns when this snapshot was assembled
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// WithFile returns a new Index with one file's entries replaced by a fresh
// parse result. The receiver is left untouched; concurrent readers keep
// seeing the old snapshot. A nil result drops the file from the index.
func (idx *Index) WithFile(file string, result *types.ParseResult) *Index {
	b := newBuilder()
	b.decls = make([]types.Declaration, 0, len(idx.decls))
	for _, d := range idx.decls {
		if d.File == file {
			continue
		}
		b.decls = append(b.decls, d)
	}
	for f, imps := range idx.imports {
		if f == file {
			continue
		}
		b.imports[f] = imps
	}
	if result != nil {
		b.add(result)
	}
	return b.build()
}
