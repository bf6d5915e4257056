package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/codescope-mcp/internal/searcher"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// handleSearchFiles handles the search_files tool invocation
func (s *Server) handleSearchFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
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

	resp, err := s.engine.Search(ctx, sess.Root(), sess.Files(), query, searcher.Options{
		CaseSensitive: getBoolDefault(args, "case_sensitive", false),
		FileGlob:      getStringDefault(args, "file_pattern", "*"),
		MaxResults:    maxResults,
	})
	if err != nil {
		return nil, toolError(err)
	}

	response := map[string]interface{}{
		"query":              query,
		"matches":            searchMatchMaps(resp.Matches),
		"count":              len(resp.Matches),
		"files_with_matches": resp.FileCount,
		"truncated":          resp.Truncated,
	}
	if len(resp.Warnings) > 0 {
		response["warnings"] = resp.Warnings
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchSymbol handles the search_symbol tool invocation
func (s *Server) handleSearchSymbol(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	kindArg := getStringDefault(args, "kind", "")
	kind, err := types.ParseDeclKind(kindArg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid kind", map[string]interface{}{
			"param":   "kind",
			"value":   kindArg,
			"allowed": []string{"class", "function", "method", "import"},
		})
	}
	exact := getBoolDefault(args, "exact", false)

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	decls := sess.Index().Lookup(name, kind, exact)

	kindLabel := kindArg
	if kindLabel == "" {
		kindLabel = "all"
	}

	response := map[string]interface{}{
		"query":        name,
		"kind":         kindLabel,
		"declarations": declarationMaps(decls),
		"count":        len(decls),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindReferences handles the find_references tool invocation
func (s *Server) handleFindReferences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	resp, err := s.engine.FindReferences(ctx, sess.Root(), sess.Files(), name, sess.Index(), searcher.ReferenceOptions{
		Scope: getStringDefault(args, "scope", ""),
	})
	if err != nil {
		return nil, toolError(err)
	}

	declarations := 0
	for _, m := range resp.Matches {
		if m.Kind == types.MatchDeclaration {
			declarations++
		}
	}

	response := map[string]interface{}{
		"symbol":            name,
		"references":        referenceMatchMaps(resp.Matches),
		"count":             len(resp.Matches),
		"declaration_count": declarations,
		"reference_count":   len(resp.Matches) - declarations,
		"truncated":         resp.Truncated,
	}
	if len(resp.Warnings) > 0 {
		response["warnings"] = resp.Warnings
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindDefinition handles the find_definition tool invocation
func (s *Server) handleFindDefinition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	decls := sess.Index().FindDefinition(name)

	response := map[string]interface{}{
		"symbol":      name,
		"definitions": declarationMaps(decls),
		"count":       len(decls),
		"found":       len(decls) > 0,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchCodeAdvanced handles the search_code_advanced tool invocation
func (s *Server) handleSearchCodeAdvanced(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	maxResults, err := maxResultsArg(args)
	if err != nil {
		return nil, err
	}

	contextLines := getIntDefault(args, "context_lines", 2)
	if contextLines < 0 || contextLines > searcher.MaxContextLines {
		return nil, newMCPError(ErrorCodeInvalidParams, "context_lines must be between 0 and 10", map[string]interface{}{
			"param": "context_lines",
			"value": contextLines,
		})
	}

	sess, err := s.sessions.Current()
	if err != nil {
		return nil, toolError(err)
	}

	resp, err := s.engine.Search(ctx, sess.Root(), sess.Files(), query, searcher.Options{
		Regex:         getBoolDefault(args, "regex", false),
		CaseSensitive: getBoolDefault(args, "case_sensitive", false),
		WholeWord:     getBoolDefault(args, "whole_word", false),
		FileGlob:      getStringDefault(args, "file_pattern", "*"),
		ContextLines:  contextLines,
		MaxResults:    maxResults,
		Scope:         getStringDefault(args, "scope", ""),
	})
	if err != nil {
		return nil, toolError(err)
	}

	response := map[string]interface{}{
		"query":     query,
		"matches":   searchMatchMaps(resp.Matches),
		"count":     len(resp.Matches),
		"truncated": resp.Truncated,
	}
	if len(resp.Warnings) > 0 {
		response["warnings"] = resp.Warnings
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// maxResultsArg extracts and bounds the max_results parameter shared by the
// search tools
func maxResultsArg(args map[string]interface{}) (int, error) {
	maxResults := getIntDefault(args, "max_results", searcher.DefaultMaxResults)
	if maxResults < 1 || maxResults > searcher.MaxResultsLimit {
		return 0, newMCPError(ErrorCodeInvalidParams, "max_results must be between 1 and 500", map[string]interface{}{
			"param": "max_results",
			"value": maxResults,
		})
	}
	return maxResults, nil
}
