package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Project operations

// createProjectWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		INSERT INTO projects (root_path, name, parser_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		project.RootPath, project.Name, project.ParserVersion, now, now)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	return s.createProjectWithQuerier(ctx, s.querier(), project)
}

// getProjectWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, rootPath string) (*Project, error) {
	query := `
		SELECT id, root_path, name, parser_version, total_files, total_declarations,
		       last_indexed_at, created_at, updated_at
		FROM projects
		WHERE root_path = ?
	`
	var project Project
	var lastIndexedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, rootPath).Scan(
		&project.ID, &project.RootPath, &project.Name, &project.ParserVersion,
		&project.TotalFiles, &project.TotalDeclarations,
		&lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.querier(), rootPath)
}

// updateProjectWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		UPDATE projects
		SET name = ?, parser_version = ?, total_files = ?, total_declarations = ?,
		    last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		project.Name, project.ParserVersion, project.TotalFiles, project.TotalDeclarations,
		project.LastIndexedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	return s.updateProjectWithQuerier(ctx, s.querier(), project)
}

// File operations

// upsertFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertFileWithQuerier(ctx context.Context, q querier, file *File) error {
	query := `
		INSERT INTO files (project_id, file_path, language, content_hash, mod_time, size_bytes, parse_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			language = excluded.language,
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			parse_error = excluded.parse_error,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		file.ProjectID, file.FilePath, file.Language, file.ContentHash[:],
		file.ModTime, file.SizeBytes, file.ParseError, now, now).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}

	file.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertFile(ctx context.Context, file *File) error {
	return s.upsertFileWithQuerier(ctx, s.querier(), file)
}

// getFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getFileWithQuerier(ctx context.Context, q querier, projectID int64, filePath string) (*File, error) {
	query := `
		SELECT id, project_id, file_path, language, content_hash, mod_time,
		       size_bytes, parse_error, created_at, updated_at
		FROM files
		WHERE project_id = ? AND file_path = ?
	`
	var file File
	var hash []byte
	var parseError sql.NullString
	err := q.QueryRowContext(ctx, query, projectID, filePath).Scan(
		&file.ID, &file.ProjectID, &file.FilePath, &file.Language,
		&hash, &file.ModTime, &file.SizeBytes, &parseError,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(file.ContentHash[:], hash)
	if parseError.Valid {
		file.ParseError = &parseError.String
	}
	return &file, nil
}

func (s *SQLiteStorage) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return s.getFileWithQuerier(ctx, s.querier(), projectID, filePath)
}

// listFilesWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listFilesWithQuerier(ctx context.Context, q querier, projectID int64) ([]*File, error) {
	query := `
		SELECT id, project_id, file_path, language, content_hash, mod_time,
		       size_bytes, parse_error, created_at, updated_at
		FROM files
		WHERE project_id = ?
		ORDER BY file_path
	`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	files := make([]*File, 0)
	for rows.Next() {
		var file File
		var hash []byte
		var parseError sql.NullString
		err := rows.Scan(
			&file.ID, &file.ProjectID, &file.FilePath, &file.Language,
			&hash, &file.ModTime, &file.SizeBytes, &parseError,
			&file.CreatedAt, &file.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		copy(file.ContentHash[:], hash)
		if parseError.Valid {
			file.ParseError = &parseError.String
		}
		files = append(files, &file)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return s.listFilesWithQuerier(ctx, s.querier(), projectID)
}

// deleteFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	query := `DELETE FROM files WHERE id = ?`
	_, err := q.ExecContext(ctx, query, fileID)
	return err
}

func (s *SQLiteStorage) DeleteFile(ctx context.Context, fileID int64) error {
	return s.deleteFileWithQuerier(ctx, s.querier(), fileID)
}

// Declaration operations

// insertDeclarationWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertDeclarationWithQuerier(ctx context.Context, q querier, decl *DeclarationRow) error {
	// Rows for a file are deleted before re-parse, so a plain insert with
	// conflict replacement is enough to stay race-free.
	query := `
		INSERT INTO declarations (
			file_id, name, kind, signature, enclosing,
			start_line, start_col, end_line, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, name, kind, start_line, start_col)
		DO UPDATE SET
			signature = excluded.signature,
			enclosing = excluded.enclosing,
			end_line = excluded.end_line
		RETURNING id, created_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		decl.FileID, decl.Name, decl.Kind, decl.Signature, decl.Enclosing,
		decl.StartLine, decl.StartCol, decl.EndLine, now,
	).Scan(&decl.ID, &decl.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert declaration: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) InsertDeclaration(ctx context.Context, decl *DeclarationRow) error {
	return s.insertDeclarationWithQuerier(ctx, s.querier(), decl)
}

// listDeclarationsByFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listDeclarationsByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*DeclarationRow, error) {
	query := `
		SELECT id, file_id, name, kind, signature, enclosing,
		       start_line, start_col, end_line, created_at
		FROM declarations
		WHERE file_id = ?
		ORDER BY start_line, start_col, name
	`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	decls := make([]*DeclarationRow, 0)
	for rows.Next() {
		var decl DeclarationRow
		err := rows.Scan(
			&decl.ID, &decl.FileID, &decl.Name, &decl.Kind, &decl.Signature,
			&decl.Enclosing, &decl.StartLine, &decl.StartCol, &decl.EndLine,
			&decl.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		decls = append(decls, &decl)
	}
	return decls, rows.Err()
}

func (s *SQLiteStorage) ListDeclarationsByFile(ctx context.Context, fileID int64) ([]*DeclarationRow, error) {
	return s.listDeclarationsByFileWithQuerier(ctx, s.querier(), fileID)
}

// deleteDeclarationsByFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteDeclarationsByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	query := `DELETE FROM declarations WHERE file_id = ?`
	_, err := q.ExecContext(ctx, query, fileID)
	return err
}

func (s *SQLiteStorage) DeleteDeclarationsByFile(ctx context.Context, fileID int64) error {
	return s.deleteDeclarationsByFileWithQuerier(ctx, s.querier(), fileID)
}

// Import operations

// insertImportWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertImportWithQuerier(ctx context.Context, q querier, imp *ImportRow) error {
	query := `
		INSERT INTO imports (file_id, name, module, alias, statement, line, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		imp.FileID, imp.Name, imp.Module, imp.Alias, imp.Statement, imp.Line, now)
	if err != nil {
		return fmt.Errorf("failed to insert import: %w", err)
	}

	if imp.ID == 0 {
		id, err := result.LastInsertId()
		if err == nil {
			imp.ID = id
		}
	}
	imp.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertImport(ctx context.Context, imp *ImportRow) error {
	return s.insertImportWithQuerier(ctx, s.querier(), imp)
}

// listImportsByFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listImportsByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*ImportRow, error) {
	query := `
		SELECT id, file_id, name, module, alias, statement, line, created_at
		FROM imports
		WHERE file_id = ?
		ORDER BY line, name
	`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	imports := make([]*ImportRow, 0)
	for rows.Next() {
		var imp ImportRow
		err := rows.Scan(&imp.ID, &imp.FileID, &imp.Name, &imp.Module,
			&imp.Alias, &imp.Statement, &imp.Line, &imp.CreatedAt)
		if err != nil {
			return nil, err
		}
		imports = append(imports, &imp)
	}
	return imports, rows.Err()
}

func (s *SQLiteStorage) ListImportsByFile(ctx context.Context, fileID int64) ([]*ImportRow, error) {
	return s.listImportsByFileWithQuerier(ctx, s.querier(), fileID)
}

// deleteImportsByFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteImportsByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	query := `DELETE FROM imports WHERE file_id = ?`
	_, err := q.ExecContext(ctx, query, fileID)
	return err
}

func (s *SQLiteStorage) DeleteImportsByFile(ctx context.Context, fileID int64) error {
	return s.deleteImportsByFileWithQuerier(ctx, s.querier(), fileID)
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	// Get project info
	project, err := s.getProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	status := &ProjectStatus{
		Project:       project,
		LastIndexedAt: project.LastIndexedAt,
	}

	// Count files
	var fileCount int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files WHERE project_id = ?", projectID).Scan(&fileCount)
	if err != nil {
		return nil, err
	}
	status.FilesCount = fileCount

	// Count declarations
	var declCount int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM declarations d
		JOIN files f ON d.file_id = f.id
		WHERE f.project_id = ?
	`, projectID).Scan(&declCount)
	if err != nil {
		return nil, err
	}
	status.DeclarationsCount = declCount

	// Count imports
	var importCount int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM imports i
		JOIN files f ON i.file_id = f.id
		WHERE f.project_id = ?
	`, projectID).Scan(&importCount)
	if err != nil {
		return nil, err
	}
	status.ImportsCount = importCount

	// Calculate database size
	var pageCount, pageSize int
	err = s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return status, nil
}

// getProjectByID retrieves a project by ID
func (s *SQLiteStorage) getProjectByID(ctx context.Context, projectID int64) (*Project, error) {
	query := `
		SELECT id, root_path, name, parser_version, total_files, total_declarations,
		       last_indexed_at, created_at, updated_at
		FROM projects
		WHERE id = ?
	`
	var project Project
	var lastIndexedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, projectID).Scan(
		&project.ID, &project.RootPath, &project.Name, &project.ParserVersion,
		&project.TotalFiles, &project.TotalDeclarations,
		&lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

// Transaction implementations

// Write operations use the internal helper that takes a querier; read-only
// operations that never run inside the build transaction delegate to storage.

func (t *sqliteTx) CreateProject(ctx context.Context, project *Project) error {
	return t.storage.createProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) UpdateProject(ctx context.Context, project *Project) error {
	return t.storage.updateProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) UpsertFile(ctx context.Context, file *File) error {
	return t.storage.upsertFileWithQuerier(ctx, t.querier(), file)
}

func (t *sqliteTx) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return t.storage.getFileWithQuerier(ctx, t.querier(), projectID, filePath)
}

func (t *sqliteTx) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return t.storage.listFilesWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) DeleteFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) InsertDeclaration(ctx context.Context, decl *DeclarationRow) error {
	return t.storage.insertDeclarationWithQuerier(ctx, t.querier(), decl)
}

func (t *sqliteTx) ListDeclarationsByFile(ctx context.Context, fileID int64) ([]*DeclarationRow, error) {
	return t.storage.listDeclarationsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) DeleteDeclarationsByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteDeclarationsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) InsertImport(ctx context.Context, imp *ImportRow) error {
	return t.storage.insertImportWithQuerier(ctx, t.querier(), imp)
}

func (t *sqliteTx) ListImportsByFile(ctx context.Context, fileID int64) ([]*ImportRow, error) {
	return t.storage.listImportsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) DeleteImportsByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteImportsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return t.storage.GetStatus(ctx, projectID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
