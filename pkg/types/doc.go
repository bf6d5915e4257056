// Package types provides shared type definitions for the CodeScope MCP server.
//
// This package defines the domain types used across CodeScope's components:
// declarations, parse results, search matches, file records, per-file
// metrics, and the domain error taxonomy.
//
// # Core Types
//
// Declaration represents a symbol declaration site (class, function,
// method, or import) extracted from source text:
//
//	decl := types.Declaration{
//	    Name: "UserService",
//	    Kind: types.KindClass,
//	    File: "src/services/user.py",
//	    Line: 14,
//	}
//
// ParseResult is the output of parsing one source unit. Syntax errors are
// carried as ParseError values rather than failing the parse, so callers
// always get the declarations that could be extracted:
//
//	result, err := p.Parse(path, src)
//	if err != nil {
//	    // the file could not be decoded as text
//	}
//	if result.HasErrors() {
//	    // structural parse degraded; declarations are best-effort
//	}
//
// # Matches
//
// SearchMatch carries a pattern-search hit with optional context windows.
// ReferenceMatch carries a whole-word occurrence of a symbol name,
// classified as a declaration or a reference against the symbol index.
// Both are transient query results and are never cached.
//
// # Errors
//
// The package exports the sentinel errors shared across components
// (ErrInvalidQuery, ErrNoActiveProject, ErrPathOutsideProject,
// ErrFileUnreadable, ...). Components wrap them with fmt.Errorf("...: %w")
// and callers test with errors.Is; only the MCP layer converts them to
// wire error codes.
package types
