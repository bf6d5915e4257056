package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/internal/storage"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// Indexer coordinates the indexing pipeline: read -> parse -> store -> merge
type Indexer struct {
	parser  *parser.Parser
	storage storage.Storage

	// Worker pool configuration
	workers int
}

// Config contains configuration for the indexer
type Config struct {
	Workers   int // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize int // Number of files to commit per transaction (default: 20)
}

// Statistics contains statistics about one index build
type Statistics struct {
	FilesParsed  int
	FilesCached  int
	FilesFailed  int
	Declarations int
	Imports      int
	Duration     time.Duration
	Warnings     []string
}

// New creates a new Indexer instance
func New(p *parser.Parser, store storage.Storage) *Indexer {
	return &Indexer{
		parser:  p,
		storage: store,
		workers: runtime.NumCPU(),
	}
}

// Parser returns the parser the pipeline uses, so single-file refreshes
// go through the same strategies as full builds
func (idx *Indexer) Parser() *parser.Parser {
	return idx.parser
}

// Build parses the given files under rootPath and assembles a fresh Index.
// Files whose content hash and parser version match the stored copy are
// loaded from storage instead of re-parsed. The returned Index is complete
// or Build errors; there is no partial state.
func (idx *Indexer) Build(ctx context.Context, rootPath string, files []string, config *Config) (*Index, *Statistics, error) {
	if config == nil {
		config = &Config{
			Workers:   runtime.NumCPU(),
			BatchSize: 20,
		}
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	idx.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		Warnings: make([]string, 0),
	}

	// Get or create project
	project, err := idx.getOrCreateProject(ctx, rootPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get or create project: %w", err)
	}

	// A parser upgrade invalidates every stored parse
	cacheValid := project.ParserVersion == parser.Version

	b := newBuilder()
	if err := idx.indexFiles(ctx, project, rootPath, files, cacheValid, config, b, stats); err != nil {
		return nil, nil, fmt.Errorf("failed to index files: %w", err)
	}

	index := b.build()
	stats.Declarations = index.DeclarationCount()
	stats.Imports = index.ImportCount()

	// Drop rows for files that vanished from disk
	if err := idx.pruneDeleted(ctx, project, files); err != nil {
		return nil, nil, fmt.Errorf("failed to prune deleted files: %w", err)
	}

	// Update project statistics
	project.Name = filepath.Base(rootPath)
	project.ParserVersion = parser.Version
	project.TotalFiles = stats.FilesParsed + stats.FilesCached
	project.TotalDeclarations = stats.Declarations
	project.LastIndexedAt = time.Now()
	if err := idx.storage.UpdateProject(ctx, project); err != nil {
		return nil, nil, fmt.Errorf("failed to update project stats: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return index, stats, nil
}

// getOrCreateProject retrieves an existing project or creates a new one
func (idx *Indexer) getOrCreateProject(ctx context.Context, rootPath string) (*storage.Project, error) {
	// Try to get existing project
	project, err := idx.storage.GetProject(ctx, rootPath)
	if err == nil {
		return project, nil
	}

	if err != storage.ErrNotFound {
		return nil, err
	}

	// Create new project
	project = &storage.Project{
		RootPath:      rootPath,
		Name:          filepath.Base(rootPath),
		ParserVersion: parser.Version,
	}

	if err := idx.storage.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// indexFiles indexes a batch of files concurrently
func (idx *Indexer) indexFiles(ctx context.Context, project *storage.Project, rootPath string,
	files []string, cacheValid bool, config *Config, b *builder, stats *Statistics) error {

	// Create worker pool with semaphore
	semaphore := make(chan struct{}, idx.workers)

	// Track progress with atomic counters
	var (
		parsed int32
		cached int32
		failed int32
	)

	// Process files in batches for transaction efficiency
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	// Use errgroup for concurrent processing with error propagation
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect the builder and stats.Warnings

	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]

		g.Go(func() error {
			return idx.indexBatch(gctx, project, rootPath, batch, cacheValid,
				semaphore, &parsed, &cached, &failed, &mu, b, stats)
		})
	}

	// Wait for all goroutines to complete
	if err := g.Wait(); err != nil {
		return err
	}

	// Update statistics
	stats.FilesParsed = int(parsed)
	stats.FilesCached = int(cached)
	stats.FilesFailed = int(failed)

	return nil
}

// indexBatch indexes a batch of files within a transaction
func (idx *Indexer) indexBatch(ctx context.Context, project *storage.Project, rootPath string,
	files []string, cacheValid bool, semaphore chan struct{},
	parsed, cached, failed *int32, mu *sync.Mutex, b *builder, stats *Statistics) error {

	// Start a transaction for this batch
	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Process each file in the batch
	for _, relPath := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case semaphore <- struct{}{}:
			// Acquire semaphore
		}

		err := idx.indexFile(ctx, tx, project, rootPath, relPath, cacheValid, parsed, cached, mu, b, stats)
		<-semaphore // Release semaphore

		if err != nil {
			atomic.AddInt32(failed, 1)
			mu.Lock()
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("%s: %v", relPath, err))
			mu.Unlock()
			// Continue with other files
			continue
		}
	}

	// Commit the batch
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// indexFile indexes a single file, loading from storage when the stored
// hash still matches the on-disk content
func (idx *Indexer) indexFile(ctx context.Context, store storage.Storage, project *storage.Project,
	rootPath, relPath string, cacheValid bool, parsed, cached *int32,
	mu *sync.Mutex, b *builder, stats *Statistics) error {

	absPath := filepath.Join(rootPath, relPath)

	data, hash, modTime, sizeBytes, err := readFileWithHash(absPath)
	if err != nil {
		return err
	}

	// Unchanged files are served from storage
	existing, err := store.GetFile(ctx, project.ID, relPath)
	if err != nil && err != storage.ErrNotFound {
		return err
	}
	if err == nil && cacheValid && existing.ContentHash == hash {
		result, err := idx.loadCached(ctx, store, existing, relPath)
		if err != nil {
			return err
		}
		atomic.AddInt32(cached, 1)
		mu.Lock()
		b.add(result)
		if existing.ParseError != nil {
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("%s: %s", relPath, *existing.ParseError))
		}
		mu.Unlock()
		return nil
	}

	// Parse the file
	result, err := idx.parser.Parse(relPath, data)
	if err != nil {
		return err
	}

	// Replace stored rows for this file
	file := &storage.File{
		ProjectID:   project.ID,
		FilePath:    relPath,
		Language:    result.Language,
		ContentHash: hash,
		ModTime:     modTime,
		SizeBytes:   sizeBytes,
	}
	if len(result.Errors) > 0 {
		errMsg := result.Errors[0].Message
		file.ParseError = &errMsg
	}

	if err := store.UpsertFile(ctx, file); err != nil {
		return err
	}
	if err := store.DeleteDeclarationsByFile(ctx, file.ID); err != nil {
		return err
	}
	if err := store.DeleteImportsByFile(ctx, file.ID); err != nil {
		return err
	}

	for i := range result.Declarations {
		row := storage.FromDeclaration(result.Declarations[i], file.ID)
		if err := store.InsertDeclaration(ctx, row); err != nil {
			return fmt.Errorf("failed to store declaration: %w", err)
		}
	}
	for i := range result.Imports {
		row := storage.FromImportRecord(result.Imports[i], file.ID)
		if err := store.InsertImport(ctx, row); err != nil {
			return fmt.Errorf("failed to store import: %w", err)
		}
	}

	atomic.AddInt32(parsed, 1)
	mu.Lock()
	b.add(result)
	for _, perr := range result.Errors {
		stats.Warnings = append(stats.Warnings, perr.Error())
	}
	mu.Unlock()

	return nil
}

// loadCached rebuilds a ParseResult from stored rows
func (idx *Indexer) loadCached(ctx context.Context, store storage.Storage, file *storage.File, relPath string) (*types.ParseResult, error) {
	rows, err := store.ListDeclarationsByFile(ctx, file.ID)
	if err != nil {
		return nil, err
	}
	impRows, err := store.ListImportsByFile(ctx, file.ID)
	if err != nil {
		return nil, err
	}

	result := &types.ParseResult{Language: file.Language}
	for _, row := range rows {
		result.Declarations = append(result.Declarations, row.ToDeclaration(relPath, file.Language))
	}
	for _, row := range impRows {
		result.Imports = append(result.Imports, row.ToImportRecord(relPath))
	}
	return result, nil
}

// pruneDeleted removes stored rows for files no longer present on disk
func (idx *Indexer) pruneDeleted(ctx context.Context, project *storage.Project, files []string) error {
	stored, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return err
	}

	live := make(map[string]struct{}, len(files))
	for _, f := range files {
		live[f] = struct{}{}
	}

	for _, file := range stored {
		if _, ok := live[file.FilePath]; ok {
			continue
		}
		if err := idx.storage.DeleteFile(ctx, file.ID); err != nil {
			return err
		}
	}
	return nil
}

// readFileWithHash reads a file and computes its SHA-256 hash
func readFileWithHash(filePath string) ([]byte, [32]byte, time.Time, int64, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, [32]byte{}, time.Time{}, 0, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, [32]byte{}, time.Time{}, 0, err
	}

	return data, sha256.Sum256(data), info.ModTime(), info.Size(), nil
}
