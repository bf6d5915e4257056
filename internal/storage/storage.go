package storage

import (
	"context"
	"time"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// Storage defines the interface for persisting parse results between runs.
// The in-memory index is rebuilt on every explore_project; storage exists so
// unchanged files can skip the parse step.
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// File operations
	UpsertFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, projectID int64, filePath string) (*File, error)
	ListFiles(ctx context.Context, projectID int64) ([]*File, error)
	DeleteFile(ctx context.Context, fileID int64) error

	// Declaration operations
	InsertDeclaration(ctx context.Context, decl *DeclarationRow) error
	ListDeclarationsByFile(ctx context.Context, fileID int64) ([]*DeclarationRow, error)
	DeleteDeclarationsByFile(ctx context.Context, fileID int64) error

	// Import operations
	InsertImport(ctx context.Context, imp *ImportRow) error
	ListImportsByFile(ctx context.Context, fileID int64) ([]*ImportRow, error)
	DeleteImportsByFile(ctx context.Context, fileID int64) error

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents an explored source tree
type Project struct {
	ID                int64
	RootPath          string
	Name              string
	ParserVersion     string
	TotalFiles        int
	TotalDeclarations int
	LastIndexedAt     time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// File represents a tracked source file
type File struct {
	ID          int64
	ProjectID   int64
	FilePath    string // Relative to project root
	Language    string
	ContentHash [32]byte
	ModTime     time.Time
	SizeBytes   int64
	ParseError  *string // Nullable
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeclarationRow represents a stored declaration extracted from a file
type DeclarationRow struct {
	ID        int64
	FileID    int64
	Name      string
	Kind      string
	Signature string
	Enclosing string
	StartLine int
	StartCol  int
	EndLine   int
	CreatedAt time.Time
}

// ImportRow represents a stored import statement
type ImportRow struct {
	ID        int64
	FileID    int64
	Name      string
	Module    string
	Alias     string
	Statement string
	Line      int
	CreatedAt time.Time
}

// ProjectStatus contains statistics about a stored project
type ProjectStatus struct {
	Project           *Project
	FilesCount        int
	DeclarationsCount int
	ImportsCount      int
	IndexSizeMB       float64
	LastIndexedAt     time.Time
}

// ToDeclaration converts a stored row back to a types.Declaration.
// File and language live on the files table, so the caller supplies them.
func (d *DeclarationRow) ToDeclaration(filePath, language string) types.Declaration {
	return types.Declaration{
		Name:      d.Name,
		Kind:      types.DeclKind(d.Kind),
		File:      filePath,
		Line:      d.StartLine,
		Column:    d.StartCol,
		EndLine:   d.EndLine,
		Signature: d.Signature,
		Enclosing: d.Enclosing,
		Language:  language,
	}
}

// FromDeclaration converts a types.Declaration to a storable row
func FromDeclaration(d types.Declaration, fileID int64) *DeclarationRow {
	return &DeclarationRow{
		FileID:    fileID,
		Name:      d.Name,
		Kind:      string(d.Kind),
		Signature: d.Signature,
		Enclosing: d.Enclosing,
		StartLine: d.Line,
		StartCol:  d.Column,
		EndLine:   d.EndLine,
	}
}

// ToImportRecord converts a stored row back to a types.ImportRecord
func (i *ImportRow) ToImportRecord(filePath string) types.ImportRecord {
	return types.ImportRecord{
		File:      filePath,
		Name:      i.Name,
		Module:    i.Module,
		Alias:     i.Alias,
		Statement: i.Statement,
		Line:      i.Line,
	}
}

// FromImportRecord converts a types.ImportRecord to a storable row
func FromImportRecord(imp types.ImportRecord, fileID int64) *ImportRow {
	return &ImportRow{
		FileID:    fileID,
		Name:      imp.Name,
		Module:    imp.Module,
		Alias:     imp.Alias,
		Statement: imp.Statement,
		Line:      imp.Line,
	}
}
