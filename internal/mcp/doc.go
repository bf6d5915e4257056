// Package mcp implements the Model Context Protocol (MCP) server for CodeScope.
//
// The MCP server exposes the project exploration, search, and analysis
// tools to AI coding assistants (Claude Code, Codex CLI):
//   - explore_project: Establish a session and index a source tree
//   - list_files, read_file: Inventory listing and ranged file reads
//   - search_files, search_code_advanced: Text and regex search
//   - search_symbol, find_references, find_definition: Symbol queries
//   - analyze_imports, analyze_file, find_code_patterns: Code analysis
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Session Model
//
// Every query tool operates on the active project session. A session is
// established by explore_project and replaced wholesale by the next
// explore_project; query tools called before the first successful explore
// fail with the NoActiveProject error code. The symbol index is rebuilt
// from the file system on each explore; the SQLite database only caches
// parse results so unchanged files are not re-parsed.
//
// # Tool: explore_project
//
// Establish the session and summarize the tree:
//
//	Request:
//	{
//	  "name": "explore_project",
//	  "arguments": {
//	    "path": "/path/to/project"
//	  }
//	}
//
//	Response:
//	{
//	  "project_path": "/path/to/project",
//	  "project_name": "project",
//	  "stats": {
//	    "total_files": 142,
//	    "code_files": 97,
//	    "directories": 18,
//	    "total_size_bytes": 1048576,
//	    "file_types": {".py": 61, ".md": 9}
//	  },
//	  "structure": [{"name": "src", "type": "directory", "size_bytes": 0}],
//	  "structure_truncated": false,
//	  "index": {
//	    "files_parsed": 97,
//	    "files_cached": 0,
//	    "declarations": 412,
//	    "imports": 188,
//	    "duration_ms": 420
//	  }
//	}
//
// # Tool: search_symbol
//
// Look up declared symbols by name:
//
//	Request:
//	{
//	  "name": "search_symbol",
//	  "arguments": {
//	    "name": "UserService",
//	    "kind": "class",
//	    "exact": true
//	  }
//	}
//
//	Response:
//	{
//	  "query": "UserService",
//	  "kind": "class",
//	  "declarations": [
//	    {
//	      "name": "UserService",
//	      "kind": "class",
//	      "file": "src/services/user.py",
//	      "line": 14,
//	      "column": 7,
//	      "signature": "class UserService(Base):",
//	      "language": "python"
//	    }
//	  ],
//	  "count": 1
//	}
//
// # Tool: search_code_advanced
//
// Regex search with context windows:
//
//	Request:
//	{
//	  "name": "search_code_advanced",
//	  "arguments": {
//	    "query": "def \\w+_handler",
//	    "regex": true,
//	    "context_lines": 2,
//	    "file_pattern": "*.py",
//	    "max_results": 50
//	  }
//	}
//
// Matches carry file, line, column, the matching line text, and the
// requested context windows. Scans short-circuit at max_results and set
// "truncated"; unreadable files become entries in "warnings" rather than
// failing the scan.
//
// # MCP Client Configuration
//
// Configure in Claude Code's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "codescope": {
//	      "command": "/usr/local/bin/codescope",
//	      "env": {
//	        "CODESCOPE_DB_PATH": "~/.codescope"
//	      }
//	    }
//	  }
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32001,
//	    "message": "no active project: call explore_project first"
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing arguments, malformed regex)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: No active project session
//   - -32002: Indexing in progress
//   - -32003: Path outside the project root
//   - -32004: File cannot be decoded as text
//   - -32005: File or record not found
//
// Single-file tools (read_file, analyze_file) fail hard on these; the
// multi-file scans skip bad files and report them as warnings instead.
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol):
//
//	log.SetOutput(os.Stderr)
//	log.Printf("MCP server started")
package mcp
