package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/codescope-mcp/internal/session"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeNoActiveProject    = -32001 // No project session established yet
	ErrorCodeIndexingInProgress = -32002 // Another explore is already running
	ErrorCodePathOutsideProject = -32003 // Requested path escapes the project root
	ErrorCodeFileUnreadable     = -32004 // Content cannot be decoded as text
	ErrorCodeNotFound           = -32005 // Requested file or record does not exist
)

// handleExploreProject handles the explore_project tool invocation
func (s *Server) handleExploreProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	// Establish the session: scan, index, swap in
	sess, err := s.sessions.Explore(ctx, path)
	if err != nil {
		return nil, toolError(err)
	}

	overview := sess.Overview()
	stats := sess.Statistics()

	structure := make([]map[string]interface{}, 0, len(overview.Structure))
	for _, entry := range overview.Structure {
		structure = append(structure, map[string]interface{}{
			"name":       entry.Name,
			"type":       entry.Type,
			"size_bytes": entry.Size,
		})
	}

	index := map[string]interface{}{
		"files_parsed": stats.FilesParsed,
		"files_cached": stats.FilesCached,
		"files_failed": stats.FilesFailed,
		"declarations": stats.Declarations,
		"imports":      stats.Imports,
		"duration_ms":  stats.Duration.Milliseconds(),
	}

	if len(stats.Warnings) > 0 {
		// Include first few warnings
		warningCount := len(stats.Warnings)
		if warningCount > 5 {
			index["warnings"] = stats.Warnings[:5]
			index["warning_count"] = warningCount
		} else {
			index["warnings"] = stats.Warnings
		}
	}

	response := map[string]interface{}{
		"project_path": overview.Root,
		"project_name": filepath.Base(overview.Root),
		"stats": map[string]interface{}{
			"total_files":      overview.FileCount,
			"code_files":       overview.CodeFileCount,
			"directories":      overview.DirCount,
			"total_size_bytes": overview.TotalSize,
			"file_types":       overview.Extensions,
		},
		"structure":           structure,
		"structure_truncated": overview.StructureTruncated,
		"index":               index,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListFiles handles the list_files tool invocation
func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// All parameters are optional; a missing argument map means defaults
	args, _ := request.Params.Arguments.(map[string]interface{})

	directory := getStringDefault(args, "directory", "")
	opts := session.ListOptions{
		Extension: getStringDefault(args, "extension", ""),
		Recursive: getBoolDefault(args, "recursive", true),
		CodeOnly:  getBoolDefault(args, "code_only", false),
	}

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	records, err := sess.ListFiles(directory, opts)
	if err != nil {
		return nil, toolError(err)
	}

	files := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		files = append(files, map[string]interface{}{
			"path":       rec.Path,
			"size_bytes": rec.Size,
			"language":   rec.Language,
		})
	}

	response := map[string]interface{}{
		"directory": directory,
		"files":     files,
		"count":     len(files),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReadFile handles the read_file tool invocation
func (s *Server) handleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file_path parameter is required", map[string]interface{}{
			"param":  "file_path",
			"reason": "missing or empty",
		})
	}

	startLine := getIntDefault(args, "start_line", 0)
	endLine := getIntDefault(args, "end_line", 0)
	if startLine < 0 || endLine < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "line numbers must be positive", map[string]interface{}{
			"start_line": startLine,
			"end_line":   endLine,
		})
	}

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	slice, err := sess.ReadFileRange(filePath, startLine, endLine)
	if err != nil {
		return nil, toolError(err)
	}

	response := map[string]interface{}{
		"file_path":   slice.Path,
		"content":     slice.Text,
		"start_line":  slice.StartLine,
		"end_line":    slice.EndLine,
		"total_lines": slice.TotalLines,
		"line_range":  fmt.Sprintf("%d-%d", slice.StartLine, slice.EndLine),
		"size_bytes":  slice.Size,
		"language":    sess.LanguageFor(slice.Path),
		"encoding":    slice.Encoding,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// toolError converts a domain error into the MCP error carrying the wire
// code for its sentinel. Everything unrecognized is an internal error.
func toolError(err error) error {
	code := ErrorCodeInternalError
	switch {
	case errors.Is(err, types.ErrInvalidQuery),
		errors.Is(err, types.ErrProjectPathRequired),
		errors.Is(err, types.ErrProjectPathNotFound),
		errors.Is(err, types.ErrProjectPathNotDirectory):
		code = ErrorCodeInvalidParams
	case errors.Is(err, types.ErrNoActiveProject):
		code = ErrorCodeNoActiveProject
	case errors.Is(err, types.ErrIndexingInProgress):
		code = ErrorCodeIndexingInProgress
	case errors.Is(err, types.ErrPathOutsideProject):
		code = ErrorCodePathOutsideProject
	case errors.Is(err, types.ErrFileUnreadable):
		code = ErrorCodeFileUnreadable
	case errors.Is(err, types.ErrNotFound):
		code = ErrorCodeNotFound
	}
	return newMCPError(code, err.Error(), nil)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Result shaping

// declarationMaps shapes declarations for a JSON result
func declarationMaps(decls []types.Declaration) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(decls))
	for _, d := range decls {
		out = append(out, map[string]interface{}{
			"name":      d.Name,
			"kind":      string(d.Kind),
			"file":      d.File,
			"line":      d.Line,
			"column":    d.Column,
			"signature": d.Signature,
			"enclosing": d.Enclosing,
			"language":  d.Language,
		})
	}
	return out
}

// searchMatchMaps shapes search matches for a JSON result. Context windows
// appear only when the search collected them.
func searchMatchMaps(matches []types.SearchMatch) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		entry := map[string]interface{}{
			"file":   m.File,
			"line":   m.Line,
			"column": m.Column,
			"text":   m.Text,
		}
		if m.ContextBefore != nil {
			entry["context_before"] = m.ContextBefore
		}
		if m.ContextAfter != nil {
			entry["context_after"] = m.ContextAfter
		}
		out = append(out, entry)
	}
	return out
}

// referenceMatchMaps shapes classified reference matches for a JSON result
func referenceMatchMaps(matches []types.ReferenceMatch) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		out = append(out, map[string]interface{}{
			"file":   m.File,
			"line":   m.Line,
			"column": m.Column,
			"text":   m.Text,
			"kind":   string(m.Kind),
		})
	}
	return out
}

// importMaps shapes import records for a JSON result
func importMaps(imports []types.ImportRecord) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(imports))
	for _, imp := range imports {
		entry := map[string]interface{}{
			"name":   imp.Name,
			"module": imp.Module,
			"line":   imp.Line,
		}
		if imp.Alias != "" {
			entry["alias"] = imp.Alias
		}
		if imp.Statement != "" {
			entry["statement"] = imp.Statement
		}
		out = append(out, entry)
	}
	return out
}
