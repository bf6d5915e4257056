package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codescope-mcp/pkg/types"
)

func TestExplore(t *testing.T) {
	m := newTestManager(t)
	root := writeProject(t, map[string]string{
		"main.py":     "def main(): pass\n",
		"pkg/util.py": "class Util:\n    def run(self): pass\n",
	})

	sess, err := m.Explore(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, root, sess.Root())
	assert.Len(t, sess.Files(), 2)
	assert.Equal(t, 2, sess.Statistics().FilesParsed)
	require.Len(t, sess.Index().FindDefinition("Util"), 1)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, sess, current)
}

func TestExplore_EmptyDirectory(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Explore(context.Background(), t.TempDir())
	require.NoError(t, err, "an empty project is valid, not an error")
	assert.Empty(t, sess.Files())
	assert.Equal(t, 0, sess.Index().DeclarationCount())
}

func TestExplore_ValidatesRoot(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Explore(ctx, "")
	assert.ErrorIs(t, err, types.ErrProjectPathRequired)

	_, err = m.Explore(ctx, filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, types.ErrProjectPathNotFound)

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = m.Explore(ctx, file)
	assert.ErrorIs(t, err, types.ErrProjectPathNotDirectory)
}

func TestExplore_ReplacesSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first := writeProject(t, map[string]string{"a.py": "def alpha(): pass\n"})
	second := writeProject(t, map[string]string{"b.py": "def beta(): pass\n"})

	_, err := m.Explore(ctx, first)
	require.NoError(t, err)
	_, err = m.Explore(ctx, second)
	require.NoError(t, err)

	sess, err := m.Current()
	require.NoError(t, err)
	assert.Equal(t, second, sess.Root())
	assert.Empty(t, sess.Index().FindDefinition("alpha"), "prior project state is discarded wholesale")
	assert.Len(t, sess.Index().FindDefinition("beta"), 1)
}

func TestExplore_WhileLocked(t *testing.T) {
	m := newTestManager(t)
	root := writeProject(t, map[string]string{"a.py": "x = 1\n"})

	require.True(t, m.lock.TryAcquire())
	defer m.lock.Release()

	_, err := m.Explore(context.Background(), root)
	assert.ErrorIs(t, err, types.ErrIndexingInProgress)
}

func TestCurrent_NoActiveProject(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Current()
	assert.ErrorIs(t, err, types.ErrNoActiveProject)
}

func TestExplore_SecondRunUsesParseCache(t *testing.T) {
	m := newTestManager(t)
	root := writeProject(t, map[string]string{
		"a.py": "def foo(): pass\n",
		"b.py": "def bar(): pass\n",
	})
	ctx := context.Background()

	first, err := m.Explore(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Statistics().FilesParsed)

	second, err := m.Explore(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Statistics().FilesParsed)
	assert.Equal(t, 2, second.Statistics().FilesCached)
	assert.Equal(t, first.Index().DeclarationCount(), second.Index().DeclarationCount())
}

func TestStatus(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Status(context.Background())
	assert.ErrorIs(t, err, types.ErrNoActiveProject)

	root := writeProject(t, map[string]string{
		"a.py": "import os\n\ndef foo(): pass\n",
	})
	_, err = m.Explore(context.Background(), root)
	require.NoError(t, err)

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, root, status.Project.RootPath)
	assert.Equal(t, 1, status.FilesCount)
	assert.Equal(t, 2, status.DeclarationsCount)
	assert.Equal(t, 1, status.ImportsCount)
}
