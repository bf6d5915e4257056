// Package indexer builds the in-memory symbol index for a project.
//
// The indexer orchestrates reading, parsing, and storage, managing
// concurrency and error handling, and produces an immutable Index
// snapshot that the session swaps in atomically.
//
// # Basic Usage
//
//	idx := indexer.New(parser.New(), store)
//
//	index, stats, err := idx.Build(ctx, rootPath, files, &indexer.Config{
//	    Workers: 8,
//	})
//
//	fmt.Printf("Indexed %d files in %v\n", stats.FilesParsed+stats.FilesCached, stats.Duration)
//
// # Indexing Pipeline
//
// Build executes a multi-stage pipeline:
//
//  1. Incremental Decision: Compare file hashes, reload unchanged files from storage
//  2. Parse: Extract declarations and imports (parallel)
//  3. Store: Persist parse results to SQLite in per-batch transactions
//  4. Merge: Assemble results into one immutable Index
//
// # Incremental Builds
//
// File change detection uses SHA-256 content hashing:
//
//	currentHash := sha256.Sum256(fileContent)
//	if stored.ContentHash == currentHash {
//	    reload(stored) // skip the parse
//	}
//
// A parser version bump invalidates every stored parse, so upgraded
// extraction rules take effect on the next build.
//
// # Concurrent Processing
//
// Build uses a worker pool bounded by a semaphore:
//
//	workers := runtime.NumCPU()
//	semaphore := make(chan struct{}, workers)
//
// Default: NumCPU() workers.
//
// # Atomic Snapshots
//
// Queries never run against a half-built index. Build assembles a complete
// Index before returning; the caller publishes it with one pointer swap.
// Single-file refreshes go through Index.WithFile, which copies the
// snapshot rather than mutating it.
//
// # Error Handling
//
// Build only returns an error for fatal failures (storage breakage,
// context cancellation). Per-file problems such as unreadable files,
// binary content, and syntax errors become Statistics.Warnings and the
// build carries on with the rest of the tree.
package indexer
