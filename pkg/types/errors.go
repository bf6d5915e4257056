package types

import "errors"

// Domain errors shared across components. The MCP layer maps these to
// wire error codes; everything below the transport matches them with
// errors.Is.
var (
	// ErrInvalidQuery covers malformed regular expressions and invalid
	// operation parameters.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNoActiveProject is returned by query operations invoked before a
	// successful explore has established a session.
	ErrNoActiveProject = errors.New("no active project: call explore_project first")

	// ErrIndexingInProgress is returned when an explore is requested
	// while another index build holds the build lock.
	ErrIndexingInProgress = errors.New("indexing already in progress")

	// ErrPathOutsideProject is returned when a requested path escapes
	// the established project root.
	ErrPathOutsideProject = errors.New("path is outside the project root")

	// ErrFileUnreadable marks content that cannot be decoded as text.
	// Soft in multi-file scans (skip plus warning), hard in single-file
	// operations.
	ErrFileUnreadable = errors.New("file cannot be decoded as text")

	// ErrNotFound is returned when a requested file or record does not
	// exist within the session.
	ErrNotFound = errors.New("not found")

	// Project root validation errors
	ErrProjectPathRequired     = errors.New("project path is required")
	ErrProjectPathNotFound     = errors.New("project path does not exist")
	ErrProjectPathNotDirectory = errors.New("project path is not a directory")
)
