package searcher

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// declSet is a DeclarationSource backed by "file:line:name" keys
type declSet map[string]struct{}

func (d declSet) DeclaresAt(file string, line int, name string) bool {
	_, ok := d[fmt.Sprintf("%s:%d:%s", file, line, name)]
	return ok
}

func TestFindReferences_ClassifiesDeclarationAndReference(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py": "def foo(): pass\n",
		"b.py": "foo()\n",
	})
	decls := declSet{"a.py:1:foo": {}}

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", decls, ReferenceOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "a.py", resp.Matches[0].File)
	assert.Equal(t, 1, resp.Matches[0].Line)
	assert.Equal(t, types.MatchDeclaration, resp.Matches[0].Kind)
	assert.Equal(t, "b.py", resp.Matches[1].File)
	assert.Equal(t, types.MatchReference, resp.Matches[1].Kind)
	assert.Equal(t, "foo()", resp.Matches[1].Text)
	assert.Equal(t, 2, resp.FileCount)
}

func TestFindReferences_NoneIsEmptyNotError(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py": "def bar(): pass\n",
	})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", declSet{}, ReferenceOptions{})
	require.NoError(t, err)

	assert.Empty(t, resp.Matches)
	assert.Equal(t, 0, resp.FileCount)
	assert.False(t, resp.Truncated)
}

func TestFindReferences_WholeWordOnly(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py": "foobar = 1\nfoo = 2\nbarfoo = 3\n",
	})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", declSet{}, ReferenceOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 2, resp.Matches[0].Line)
}

func TestFindReferences_CaseSensitive(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.go": "var Widget int\nvar widget int\n",
	})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "Widget", declSet{}, ReferenceOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 1, resp.Matches[0].Line)
}

func TestFindReferences_MultiplePerLine(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py": "foo(foo)\n",
	})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", declSet{}, ReferenceOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 2)
	assert.Equal(t, 1, resp.Matches[0].Column)
	assert.Equal(t, 5, resp.Matches[1].Column)
}

func TestFindReferences_DeclaringLineCountsAsDeclaration(t *testing.T) {
	// A symbol used on its own declaring line still classifies as a
	// declaration; line granularity is all the index can answer.
	root, files := writeTree(t, map[string]string{
		"a.py": "class Tick: pass  # replaces legacy Tick\n",
	})
	decls := declSet{"a.py:1:Tick": {}}

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "Tick", decls, ReferenceOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 2)
	for _, m := range resp.Matches {
		assert.Equal(t, types.MatchDeclaration, m.Kind)
	}
}

func TestFindReferences_EmptyName(t *testing.T) {
	root, files := writeTree(t, map[string]string{"a.py": "x\n"})

	engine := NewEngine()
	_, err := engine.FindReferences(context.Background(), root, files, "", declSet{}, ReferenceOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidQuery)
}

func TestFindReferences_Scope(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"pkg/a.py":   "foo()\n",
		"other/b.py": "foo()\n",
	})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", declSet{},
		ReferenceOptions{Scope: "pkg"})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "pkg/a.py", resp.Matches[0].File)
}

func TestFindReferences_MaxResults(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py": strings.Repeat("foo()\n", 30),
	})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", declSet{},
		ReferenceOptions{MaxResults: 10})
	require.NoError(t, err)

	assert.Len(t, resp.Matches, 10)
	assert.True(t, resp.Truncated)
}

func TestFindReferences_SkipsNonCodeFiles(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py":      "foo()\n",
		"README.md": "foo is documented here\n",
	})
	for i := range files {
		if files[i].Path == "README.md" {
			files[i].CodeFile = false
		}
	}

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", declSet{}, ReferenceOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "a.py", resp.Matches[0].File)
}

func TestFindReferences_MissingFileWarns(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py": "foo()\n",
	})
	files = append(files, types.FileRecord{Path: "ghost.py", CodeFile: true})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", declSet{}, ReferenceOptions{})
	require.NoError(t, err)

	assert.Len(t, resp.Matches, 1)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "ghost.py")
}

func TestFindReferences_NilSourceTreatsAllAsReferences(t *testing.T) {
	root, files := writeTree(t, map[string]string{
		"a.py": "def foo(): pass\n",
	})

	engine := NewEngine()
	resp, err := engine.FindReferences(context.Background(), root, files, "foo", nil, ReferenceOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, types.MatchReference, resp.Matches[0].Kind)
}
