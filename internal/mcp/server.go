package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/codescope-mcp/internal/analyzer"
	"github.com/dshills/codescope-mcp/internal/indexer"
	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/internal/searcher"
	"github.com/dshills/codescope-mcp/internal/session"
	"github.com/dshills/codescope-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "codescope-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.codescope"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	sessions *session.Manager
	engine   *searcher.Engine
	analyzer *analyzer.Analyzer
}

// NewServer creates a new MCP server instance. dbPath names the directory
// holding the index database; ":memory:" short-circuits to an in-process
// database.
func NewServer(dbPath string, config *indexer.Config) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".codescope")
	}

	dbFile := dbPath
	if dbPath != ":memory:" {
		// Create directory if it doesn't exist
		if err := os.MkdirAll(dbPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dbFile = filepath.Join(dbPath, "index.db")
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// One parser registry shared by full builds and single-file refreshes
	p := parser.New()

	// Create the search engine (shared between search tools and the analyzer)
	engine := searcher.NewEngine()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		sessions: session.NewManager(store, p, config),
		engine:   engine,
		analyzer: analyzer.New(engine),
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Project and file tools
	s.mcp.AddTool(exploreProjectTool(), s.handleExploreProject)
	s.mcp.AddTool(listFilesTool(), s.handleListFiles)
	s.mcp.AddTool(readFileTool(), s.handleReadFile)

	// Search tools
	s.mcp.AddTool(searchFilesTool(), s.handleSearchFiles)
	s.mcp.AddTool(searchSymbolTool(), s.handleSearchSymbol)
	s.mcp.AddTool(findReferencesTool(), s.handleFindReferences)
	s.mcp.AddTool(findDefinitionTool(), s.handleFindDefinition)
	s.mcp.AddTool(searchCodeAdvancedTool(), s.handleSearchCodeAdvanced)

	// Analysis tools
	s.mcp.AddTool(analyzeImportsTool(), s.handleAnalyzeImports)
	s.mcp.AddTool(analyzeFileTool(), s.handleAnalyzeFile)
	s.mcp.AddTool(findCodePatternsTool(), s.handleFindCodePatterns)

	return nil
}
