package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// exploreProjectTool returns the tool definition for explore_project
func exploreProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "explore_project",
		Description: "Establish a project session: scan the tree, build the symbol index, and summarize the structure",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the project root directory",
				},
			},
			Required: []string{"path"},
		},
	}
}

// listFilesTool returns the tool definition for list_files
func listFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_files",
		Description: "List files in a project directory with extension and code-file filters",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"directory": map[string]interface{}{
					"type":        "string",
					"description": "Directory to list, relative to the project root (default: the root)",
					"default":     "",
				},
				"extension": map[string]interface{}{
					"type":        "string",
					"description": "Only list files with this extension (e.g. '.py' or 'py')",
					"default":     "",
				},
				"recursive": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include files in subdirectories",
					"default":     true,
				},
				"code_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, only list files recognized as code",
					"default":     false,
				},
			},
		},
	}
}

// readFileTool returns the tool definition for read_file
func readFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "read_file",
		Description: "Read a file's content, optionally restricted to a line range",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the file, relative to the project root",
				},
				"start_line": map[string]interface{}{
					"type":        "integer",
					"description": "First line to read, 1-indexed (default: start of file)",
					"minimum":     1,
				},
				"end_line": map[string]interface{}{
					"type":        "integer",
					"description": "Last line to read, inclusive (default: end of file)",
					"minimum":     1,
				},
			},
			Required: []string{"file_path"},
		},
	}
}

// searchFilesTool returns the tool definition for search_files
func searchFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_files",
		Description: "Search project files for a literal text query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to search for",
				},
				"file_pattern": map[string]interface{}{
					"type":        "string",
					"description": "Comma-separated glob list for file names (e.g. '*.py,*.js')",
					"default":     "*",
				},
				"case_sensitive": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, match case exactly",
					"default":     false,
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of matches to return (1-500)",
					"default":     50,
					"minimum":     1,
					"maximum":     500,
				},
			},
			Required: []string{"query"},
		},
	}
}

// searchSymbolTool returns the tool definition for search_symbol
func searchSymbolTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_symbol",
		Description: "Look up declared symbols (classes, functions, methods, imports) by name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Symbol name; matched as a case-insensitive substring unless exact is set",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one declaration kind (default: all kinds)",
					"enum":        []string{"class", "function", "method", "import"},
				},
				"exact": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, only identical names match",
					"default":     false,
				},
			},
			Required: []string{"name"},
		},
	}
}

// findReferencesTool returns the tool definition for find_references
func findReferencesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_references",
		Description: "Find whole-word occurrences of a symbol name, classified as declarations or references",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Symbol name to find references for",
				},
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the scan to a subtree, relative to the project root",
					"default":     "",
				},
			},
			Required: []string{"name"},
		},
	}
}

// findDefinitionTool returns the tool definition for find_definition
func findDefinitionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_definition",
		Description: "Find the defining declarations of a symbol, one per file that defines it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Exact symbol name to find the definition for",
				},
			},
			Required: []string{"name"},
		},
	}
}

// searchCodeAdvancedTool returns the tool definition for search_code_advanced
func searchCodeAdvancedTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_code_advanced",
		Description: "Search project files with regex, whole-word, and context-line support",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text or pattern to search for",
				},
				"regex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, treat the query as a regular expression",
					"default":     false,
				},
				"case_sensitive": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, match case exactly",
					"default":     false,
				},
				"whole_word": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, require word boundaries around the match",
					"default":     false,
				},
				"file_pattern": map[string]interface{}{
					"type":        "string",
					"description": "Comma-separated glob list for file names (e.g. '*.py,*.js')",
					"default":     "*",
				},
				"context_lines": map[string]interface{}{
					"type":        "integer",
					"description": "Lines of surrounding text per match (0-10)",
					"default":     2,
					"minimum":     0,
					"maximum":     10,
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of matches to return (1-500)",
					"default":     50,
					"minimum":     1,
					"maximum":     500,
				},
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the scan to a subtree, relative to the project root",
					"default":     "",
				},
			},
			Required: []string{"query"},
		},
	}
}

// analyzeImportsTool returns the tool definition for analyze_imports
func analyzeImportsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_imports",
		Description: "Aggregate import statements across the project into a per-file listing and dependency set",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the report to a subtree, relative to the project root",
					"default":     "",
				},
			},
		},
	}
}

// analyzeFileTool returns the tool definition for analyze_file
func analyzeFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_file",
		Description: "Compute metrics for one file: line classes, complexity, functions, classes, and imports",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the file, relative to the project root",
				},
			},
			Required: []string{"file_path"},
		},
	}
}

// findCodePatternsTool returns the tool definition for find_code_patterns
func findCodePatternsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_code_patterns",
		Description: "Search code files for a regular expression pattern",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "Regular expression to search for",
				},
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the scan to a subtree, relative to the project root",
					"default":     "",
				},
				"file_pattern": map[string]interface{}{
					"type":        "string",
					"description": "Comma-separated glob list; overrides the code-files-only default",
					"default":     "",
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of matches to return (1-500)",
					"default":     50,
					"minimum":     1,
					"maximum":     500,
				},
			},
			Required: []string{"pattern"},
		},
	}
}
