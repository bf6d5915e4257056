//go:build !cgo_sqlite
// +build !cgo_sqlite

package storage

// This file is compiled by default. It uses a pure Go SQLite
// implementation so the binary cross-compiles without a C toolchain.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// The pure Go implementation provides:
//   - No C compiler required
//   - Cross-platform compilation
//   - Slightly slower writes than the C driver
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
