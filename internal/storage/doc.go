// Package storage provides SQLite-based persistence for parsed file data.
//
// The storage layer manages:
//   - Project metadata
//   - File information and content hashes
//   - Extracted declarations
//   - Import statements
//
// The live symbol index is held in memory and rebuilt on every
// explore_project call. Storage is a parse cache underneath it: when a
// file's content hash and the parser version both match the stored row,
// the indexer reloads declarations from here instead of re-parsing.
//
// # Database Schema
//
// Tables:
//   - projects: Project metadata (root path, name, parser version)
//   - files: File paths, languages, and SHA-256 hashes
//   - declarations: Extracted declarations (classes, functions, methods, imports)
//   - imports: Import statements with module and alias
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.codescope/index.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Track a file
//	file := &storage.File{
//	    ProjectID:   projectID,
//	    FilePath:    "src/app.py",
//	    Language:    "python",
//	    ContentHash: hash,
//	}
//	err = db.UpsertFile(ctx, file)
//
// # Transactions
//
// Use transactions for atomic per-file replacement:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.UpsertFile(ctx, file)
//	tx.DeleteDeclarationsByFile(ctx, file.ID)
//	for i := range decls {
//	    tx.InsertDeclaration(ctx, decls[i])
//	}
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Incremental Updates
//
// Check file hashes to detect changes:
//
//	stored, err := db.GetFile(ctx, projectID, relPath)
//	if err == nil && stored.ContentHash == currentHash {
//	    // File unchanged, reload rows instead of re-parsing
//	    rows, _ := db.ListDeclarationsByFile(ctx, stored.ID)
//	    ...
//	}
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO Build (cgo_sqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags cgo_sqlite
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
package storage
