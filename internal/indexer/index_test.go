package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codescope-mcp/pkg/types"
)

func fixtureIndex() *Index {
	return NewIndex([]*types.ParseResult{
		{
			Language: "python",
			Declarations: []types.Declaration{
				{Name: "foo", Kind: types.KindFunction, File: "a.py", Line: 1, Column: 1},
				{Name: "Helper", Kind: types.KindClass, File: "a.py", Line: 5, Column: 1},
				{Name: "run", Kind: types.KindMethod, File: "a.py", Line: 6, Column: 5, Enclosing: "Helper"},
				{Name: "os", Kind: types.KindImport, File: "a.py", Line: 1, Column: 1},
			},
			Imports: []types.ImportRecord{
				{File: "a.py", Name: "os", Module: "os", Line: 1},
			},
		},
		{
			Language: "python",
			Declarations: []types.Declaration{
				{Name: "foo", Kind: types.KindFunction, File: "b.py", Line: 3, Column: 1},
				{Name: "foo", Kind: types.KindFunction, File: "b.py", Line: 9, Column: 1},
			},
			Imports: []types.ImportRecord{
				{File: "b.py", Name: "foo", Module: "a", Line: 1},
			},
		},
	})
}

func TestIndexLookup_Exact(t *testing.T) {
	idx := fixtureIndex()

	decls := idx.Lookup("foo", "", true)
	require.Len(t, decls, 3)
	// Ordered by file, then line
	assert.Equal(t, "a.py", decls[0].File)
	assert.Equal(t, "b.py", decls[1].File)
	assert.Equal(t, 3, decls[1].Line)
	assert.Equal(t, 9, decls[2].Line)

	// Exact means exact: no substring hits
	assert.Empty(t, idx.Lookup("fo", "", true))
}

func TestIndexLookup_KindFilter(t *testing.T) {
	idx := fixtureIndex()

	classes := idx.Lookup("Helper", types.KindClass, true)
	require.Len(t, classes, 1)
	assert.Equal(t, types.KindClass, classes[0].Kind)

	none := idx.Lookup("Helper", types.KindFunction, true)
	assert.Empty(t, none)

	imports := idx.Lookup("os", types.KindImport, true)
	require.Len(t, imports, 1)
}

func TestIndexLookup_Substring(t *testing.T) {
	idx := fixtureIndex()

	// Case-insensitive substring match
	decls := idx.Lookup("help", "", false)
	require.Len(t, decls, 1)
	assert.Equal(t, "Helper", decls[0].Name)

	// Substring lookup still honors the kind filter
	assert.Empty(t, idx.Lookup("help", types.KindFunction, false))
}

func TestFindDefinition(t *testing.T) {
	idx := fixtureIndex()

	defs := idx.FindDefinition("foo")
	require.Len(t, defs, 2, "one definition per file")
	assert.Equal(t, "a.py", defs[0].File)
	assert.Equal(t, 1, defs[0].Line)
	// b.py declares foo twice; only the first counts
	assert.Equal(t, "b.py", defs[1].File)
	assert.Equal(t, 3, defs[1].Line)
}

func TestFindDefinition_ExcludesImports(t *testing.T) {
	idx := fixtureIndex()

	defs := idx.FindDefinition("os")
	assert.Empty(t, defs, "an import binding is not a definition")
}

func TestFindDefinition_Unknown(t *testing.T) {
	idx := fixtureIndex()
	assert.Empty(t, idx.FindDefinition("nothere"))
}

func TestDeclaresAt(t *testing.T) {
	idx := fixtureIndex()

	assert.True(t, idx.DeclaresAt("a.py", 1, "foo"))
	assert.False(t, idx.DeclaresAt("a.py", 2, "foo"))
	assert.False(t, idx.DeclaresAt("b.py", 1, "foo"))
	assert.True(t, idx.DeclaresAt("b.py", 9, "foo"))
}

func TestDeclarationsByFile(t *testing.T) {
	idx := fixtureIndex()

	decls := idx.DeclarationsByFile("a.py")
	require.Len(t, decls, 4)
	for i := 1; i < len(decls); i++ {
		assert.LessOrEqual(t, decls[i-1].Line, decls[i].Line)
	}

	assert.Empty(t, idx.DeclarationsByFile("missing.py"))
}

func TestImports(t *testing.T) {
	idx := fixtureIndex()

	assert.Equal(t, 2, idx.ImportCount())
	assert.Equal(t, []string{"a.py", "b.py"}, idx.ImportingFiles())

	imps := idx.ImportsByFile("a.py")
	require.Len(t, imps, 1)
	assert.Equal(t, "os", imps[0].Module)
}

func TestWithFile_Replace(t *testing.T) {
	idx := fixtureIndex()

	updated := idx.WithFile("b.py", &types.ParseResult{
		Language: "python",
		Declarations: []types.Declaration{
			{Name: "bar", Kind: types.KindFunction, File: "b.py", Line: 2, Column: 1},
		},
	})

	// New snapshot sees the replacement
	foos := updated.Lookup("foo", "", true)
	require.Len(t, foos, 1)
	assert.Equal(t, "a.py", foos[0].File)
	require.Len(t, updated.Lookup("bar", "", true), 1)
	assert.Empty(t, updated.ImportsByFile("b.py"))

	// Old snapshot is untouched
	assert.Len(t, idx.Lookup("foo", "", true), 3)
	assert.Len(t, idx.ImportsByFile("b.py"), 1)
}

func TestWithFile_Remove(t *testing.T) {
	idx := fixtureIndex()

	updated := idx.WithFile("b.py", nil)
	assert.Len(t, updated.Lookup("foo", "", true), 1)
	assert.Equal(t, []string{"a.py"}, updated.ImportingFiles())
}

func TestIndexCounts(t *testing.T) {
	idx := fixtureIndex()
	assert.Equal(t, 6, idx.DeclarationCount())
	assert.False(t, idx.BuiltAt().IsZero())
}

func TestEmptyIndex(t *testing.T) {
	idx := NewIndex(nil)
	assert.Equal(t, 0, idx.DeclarationCount())
	assert.Empty(t, idx.Lookup("anything", "", false))
	assert.Empty(t, idx.FindDefinition("anything"))
}
