package indexer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/internal/storage"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// setupTestStorage creates an in-memory SQLite database for testing
func setupTestStorage(t testing.TB) storage.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err, "Failed to create test storage")
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func newTestIndexer(t testing.TB) *Indexer {
	t.Helper()
	return New(parser.New(), setupTestStorage(t))
}

// writeProject materializes a file tree under a temp dir and returns the
// root plus the sorted relative paths
func writeProject(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()

	root := t.TempDir()
	rels := make([]string, 0, len(files))
	for rel, content := range files {
		abs := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
		rels = append(rels, rel)
	}
	return root, rels
}

func TestNew(t *testing.T) {
	idx := newTestIndexer(t)
	assert.NotNil(t, idx)
	assert.NotNil(t, idx.Parser())
	assert.Greater(t, idx.workers, 0)
}

func TestBuild_Success(t *testing.T) {
	idx := newTestIndexer(t)
	root, files := writeProject(t, map[string]string{
		"a.py":        "def foo():\n    pass\n",
		"b.py":        "foo()\n",
		"pkg/util.go": "package pkg\n\nfunc Util() {}\n",
	})

	index, stats, err := idx.Build(context.Background(), root, files, nil)
	require.NoError(t, err)
	require.NotNil(t, index)

	assert.Equal(t, 3, stats.FilesParsed)
	assert.Equal(t, 0, stats.FilesCached)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Greater(t, stats.Duration.Nanoseconds(), int64(0))

	defs := index.FindDefinition("foo")
	require.Len(t, defs, 1)
	assert.Equal(t, "a.py", defs[0].File)
	assert.Equal(t, 1, defs[0].Line)

	utils := index.Lookup("Util", types.KindFunction, true)
	require.Len(t, utils, 1)
	assert.Equal(t, "pkg/util.go", utils[0].File)
}

func TestBuild_EmptyProject(t *testing.T) {
	idx := newTestIndexer(t)
	root := t.TempDir()

	index, stats, err := idx.Build(context.Background(), root, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, index)
	assert.Equal(t, 0, stats.FilesParsed)
	assert.Equal(t, 0, index.DeclarationCount())
}

func TestBuild_SecondRunUsesCache(t *testing.T) {
	idx := newTestIndexer(t)
	root, files := writeProject(t, map[string]string{
		"a.py": "def foo():\n    pass\n",
		"b.py": "class Bar:\n    pass\n",
	})

	ctx := context.Background()
	first, firstStats, err := idx.Build(ctx, root, files, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, firstStats.FilesParsed)

	second, secondStats, err := idx.Build(ctx, root, files, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, secondStats.FilesParsed)
	assert.Equal(t, 2, secondStats.FilesCached)

	// Cached rows reproduce the same index
	assert.Equal(t, first.DeclarationCount(), second.DeclarationCount())
	assert.Equal(t, first.FindDefinition("foo"), second.FindDefinition("foo"))
}

func TestBuild_ModifiedFileReparsed(t *testing.T) {
	idx := newTestIndexer(t)
	root, files := writeProject(t, map[string]string{
		"a.py": "def foo():\n    pass\n",
		"b.py": "class Bar:\n    pass\n",
	})

	ctx := context.Background()
	_, _, err := idx.Build(ctx, root, files, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"),
		[]byte("def foo():\n    pass\n\ndef baz():\n    pass\n"), 0o644))

	index, stats, err := idx.Build(ctx, root, files, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesParsed)
	assert.Equal(t, 1, stats.FilesCached)

	require.Len(t, index.FindDefinition("baz"), 1)
}

func TestBuild_MissingFileIsWarning(t *testing.T) {
	idx := newTestIndexer(t)
	root, files := writeProject(t, map[string]string{
		"a.py": "def foo():\n    pass\n",
	})
	files = append(files, "ghost.py")

	index, stats, err := idx.Build(context.Background(), root, files, nil)
	require.NoError(t, err, "one unreadable file must not abort the build")
	assert.Equal(t, 1, stats.FilesParsed)
	assert.Equal(t, 1, stats.FilesFailed)
	require.NotEmpty(t, stats.Warnings)
	assert.Contains(t, stats.Warnings[0], "ghost.py")

	require.Len(t, index.FindDefinition("foo"), 1)
}

func TestBuild_SyntaxErrorIsBestEffort(t *testing.T) {
	idx := newTestIndexer(t)
	root, files := writeProject(t, map[string]string{
		"broken.go": "package broken\n\nfunc Valid() {}\n\nfunc Invalid( {\n",
	})

	index, stats, err := idx.Build(context.Background(), root, files, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesParsed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.NotEmpty(t, stats.Warnings, "syntax problems surface as warnings")

	assert.NotEmpty(t, index.Lookup("Valid", "", true))
}

func TestBuild_PruneDeletedFiles(t *testing.T) {
	store := setupTestStorage(t)
	idx := New(parser.New(), store)
	root, files := writeProject(t, map[string]string{
		"a.py": "def foo():\n    pass\n",
		"b.py": "def bar():\n    pass\n",
	})

	ctx := context.Background()
	_, _, err := idx.Build(ctx, root, files, nil)
	require.NoError(t, err)

	// b.py disappears from disk and from the inventory
	require.NoError(t, os.Remove(filepath.Join(root, "b.py")))
	index, _, err := idx.Build(ctx, root, []string{"a.py"}, nil)
	require.NoError(t, err)

	assert.Empty(t, index.FindDefinition("bar"))

	project, err := store.GetProject(ctx, root)
	require.NoError(t, err)
	stored, err := store.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "a.py", stored[0].FilePath)
}

func TestBuild_ContextCancellation(t *testing.T) {
	idx := newTestIndexer(t)

	files := make(map[string]string)
	for i := 0; i < 50; i++ {
		files[filepath.Join("src", "file"+string(rune('a'+i%26))+".py")] = "def f():\n    pass\n"
	}
	root, rels := writeProject(t, files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := idx.Build(ctx, root, rels, nil)
	assert.Error(t, err)
}

func TestBuild_DefaultConfig(t *testing.T) {
	idx := newTestIndexer(t)
	root, files := writeProject(t, map[string]string{
		"a.py": "def foo():\n    pass\n",
	})

	// Nil config and zero workers both fall back to defaults
	_, _, err := idx.Build(context.Background(), root, files, nil)
	require.NoError(t, err)

	_, _, err = idx.Build(context.Background(), root, files, &Config{Workers: 0, BatchSize: 0})
	require.NoError(t, err)
}

func TestBuild_UpdatesProjectStats(t *testing.T) {
	store := setupTestStorage(t)
	idx := New(parser.New(), store)
	root, files := writeProject(t, map[string]string{
		"a.py": "import os\n\ndef foo():\n    pass\n",
	})

	ctx := context.Background()
	index, _, err := idx.Build(ctx, root, files, nil)
	require.NoError(t, err)

	project, err := store.GetProject(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, project.TotalFiles)
	assert.Equal(t, index.DeclarationCount(), project.TotalDeclarations)
	assert.Equal(t, parser.Version, project.ParserVersion)
	assert.False(t, project.LastIndexedAt.IsZero())
}

func TestBuildLock(t *testing.T) {
	var lock BuildLock

	require.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire(), "second acquire must fail while held")

	lock.Release()
	assert.True(t, lock.TryAcquire())
	lock.Release()
}

func TestBuildLock_Concurrent(t *testing.T) {
	var lock BuildLock
	var acquired int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if lock.TryAcquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), acquired, "exactly one goroutine wins the lock")
}
