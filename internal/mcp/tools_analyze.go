package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// handleAnalyzeImports handles the analyze_imports tool invocation
func (s *Server) handleAnalyzeImports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// The scope parameter is optional; a missing argument map means the
	// whole project
	args, _ := request.Params.Arguments.(map[string]interface{})
	scope := getStringDefault(args, "scope", "")

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	report := s.analyzer.AnalyzeImports(sess.Index(), scope)

	files := make([]map[string]interface{}, 0, len(report.Files))
	for _, f := range report.Files {
		files = append(files, map[string]interface{}{
			"file":    f.File,
			"imports": importMaps(f.Imports),
		})
	}

	response := map[string]interface{}{
		"scope":        report.Scope,
		"files":        files,
		"dependencies": report.Dependencies,
		"file_count":   report.FileCount,
		"import_count": report.ImportCount,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAnalyzeFile handles the analyze_file tool invocation
func (s *Server) handleAnalyzeFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	slice, err := sess.ReadFileRange(filePath, 0, 0)
	if err != nil {
		return nil, toolError(err)
	}

	// Files no parser recognizes still get text metrics; the parsed unit
	// adds functions, classes, and imports
	language := sess.LanguageFor(slice.Path)
	var result *types.ParseResult
	if language != "" {
		result, err = sess.ParseUnit(filePath)
		if err != nil {
			return nil, toolError(err)
		}
	}

	metrics := s.analyzer.AnalyzeFile(language, slice.Text, result)

	functions := make([]map[string]interface{}, 0, len(metrics.Functions))
	for _, fn := range metrics.Functions {
		entry := map[string]interface{}{
			"name":       fn.Name,
			"line":       fn.Line,
			"complexity": fn.Complexity,
		}
		if fn.Signature != "" {
			entry["signature"] = fn.Signature
		}
		functions = append(functions, entry)
	}

	classes := make([]map[string]interface{}, 0, len(metrics.Classes))
	for _, cl := range metrics.Classes {
		methods := cl.Methods
		if methods == nil {
			methods = make([]string, 0)
		}
		classes = append(classes, map[string]interface{}{
			"name":    cl.Name,
			"line":    cl.Line,
			"methods": methods,
		})
	}

	response := map[string]interface{}{
		"file_path": slice.Path,
		"language":  metrics.Language,
		"metrics": map[string]interface{}{
			"lines_total":    metrics.LinesTotal,
			"lines_code":     metrics.LinesCode,
			"lines_blank":    metrics.LinesBlank,
			"lines_comment":  metrics.LinesComment,
			"complexity":     metrics.Complexity,
			"function_count": metrics.FunctionCount(),
			"class_count":    metrics.ClassCount(),
			"import_count":   metrics.ImportCount(),
			"functions":      functions,
			"classes":        classes,
			"imports":        importMaps(metrics.Imports),
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindCodePatterns handles the find_code_patterns tool invocation
func (s *Server) handleFindCodePatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	pattern, ok := args["pattern"].(string)
	if !ok || pattern == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "pattern parameter is required and cannot be empty", map[string]interface{}{
			"param":  "pattern",
			"reason": "missing or empty",
		})
	}

	maxResults, err := maxResultsArg(args)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	resp, err := s.analyzer.FindCodePatterns(ctx, sess.Root(), sess.Files(), pattern,
		getStringDefault(args, "scope", ""),
		getStringDefault(args, "file_pattern", ""),
		maxResults)
	if err != nil {
		return nil, toolError(err)
	}

	response := map[string]interface{}{
		"pattern":   pattern,
		"matches":   searchMatchMaps(resp.Matches),
		"count":     len(resp.Matches),
		"truncated": resp.Truncated,
	}
	if len(resp.Warnings) > 0 {
		response["warnings"] = resp.Warnings
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}
