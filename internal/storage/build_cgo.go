//go:build cgo_sqlite
// +build cgo_sqlite

package storage

// This file is compiled when building with the cgo_sqlite tag.
// It selects the C-backed SQLite driver.
//
// Build command:
//   CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// The C driver provides:
//   - Faster bulk inserts during index rebuilds
//   - Smaller binary when SQLite is already on the system
//   - Requires a C compiler at build time
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
