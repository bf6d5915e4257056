package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/internal/searcher"
	"github.com/dshills/codescope-mcp/internal/session"
	"github.com/dshills/codescope-mcp/internal/storage"
)

// setupSearchBenchmark explores the fixtures once for the search benchmarks
func setupSearchBenchmark(b *testing.B) (storage.Storage, *session.Session, *searcher.Engine) {
	// Get fixtures directory
	wd, err := os.Getwd()
	if err != nil {
		b.Fatal(err)
	}
	fixturesDir := filepath.Join(filepath.Dir(wd), "testdata", "fixtures")

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		b.Fatal(err)
	}

	manager := session.NewManager(store, parser.New(), nil)
	sess, err := manager.Explore(context.Background(), fixturesDir)
	if err != nil {
		store.Close()
		b.Fatal(err)
	}

	return store, sess, searcher.NewEngine()
}

// BenchmarkLiteralSearch benchmarks plain substring search
func BenchmarkLiteralSearch(b *testing.B) {
	store, sess, engine := setupSearchBenchmark(b)
	defer store.Close()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Search(context.Background(), sess.Root(), sess.Files(), "hexdigest", searcher.Options{})
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRegexSearch benchmarks regular expression search
func BenchmarkRegexSearch(b *testing.B) {
	store, sess, engine := setupSearchBenchmark(b)
	defer store.Close()

	opts := searcher.Options{
		Regex:        true,
		ContextLines: 2,
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Search(context.Background(), sess.Root(), sess.Files(), `def \w+`, opts)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSymbolLookup benchmarks index queries
func BenchmarkSymbolLookup(b *testing.B) {
	store, sess, _ := setupSearchBenchmark(b)
	defer store.Close()

	idx := sess.Index()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if decls := idx.Lookup("sign_token", "", true); len(decls) != 1 {
			b.Fatal("unexpected lookup result")
		}
	}
}

// BenchmarkFindReferences benchmarks the reference scan
func BenchmarkFindReferences(b *testing.B) {
	store, sess, engine := setupSearchBenchmark(b)
	defer store.Close()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.FindReferences(context.Background(), sess.Root(), sess.Files(), "sign_token", sess.Index(), searcher.ReferenceOptions{})
		if err != nil {
			b.Fatal(err)
		}
	}
}
