package mcp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codescope-mcp/pkg/types"
)

func TestServer_Initialization(t *testing.T) {
	t.Run("custom path creates database file", func(t *testing.T) {
		tmpDir := t.TempDir()

		server, err := NewServer(tmpDir, nil)
		require.NoError(t, err)
		defer server.storage.Close()

		assert.NotNil(t, server)
		_, err = os.Stat(filepath.Join(tmpDir, "index.db"))
		assert.NoError(t, err, "database file should exist under the given directory")
	})

	t.Run("memory database skips the filesystem", func(t *testing.T) {
		server, err := NewServer(":memory:", nil)
		require.NoError(t, err)
		defer server.storage.Close()

		assert.NotNil(t, server)
	})

	t.Run("server has all required components", func(t *testing.T) {
		server, err := NewServer(t.TempDir(), nil)
		require.NoError(t, err)
		defer server.storage.Close()

		assert.NotNil(t, server.mcp, "MCP server should be initialized")
		assert.NotNil(t, server.storage, "Storage should be initialized")
		assert.NotNil(t, server.sessions, "Session manager should be initialized")
		assert.NotNil(t, server.engine, "Search engine should be initialized")
		assert.NotNil(t, server.analyzer, "Analyzer should be initialized")
	})

	t.Run("nested database directory is created", func(t *testing.T) {
		dbDir := filepath.Join(t.TempDir(), "deep", "nested")

		server, err := NewServer(dbDir, nil)
		require.NoError(t, err)
		defer server.storage.Close()

		info, err := os.Stat(dbDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestToolError_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid query", fmt.Errorf("%w: boom", types.ErrInvalidQuery), ErrorCodeInvalidParams},
		{"project path not found", fmt.Errorf("%w: /nope", types.ErrProjectPathNotFound), ErrorCodeInvalidParams},
		{"no active project", types.ErrNoActiveProject, ErrorCodeNoActiveProject},
		{"indexing in progress", types.ErrIndexingInProgress, ErrorCodeIndexingInProgress},
		{"path outside project", fmt.Errorf("%w: ../x", types.ErrPathOutsideProject), ErrorCodePathOutsideProject},
		{"file unreadable", fmt.Errorf("%w: blob.bin", types.ErrFileUnreadable), ErrorCodeFileUnreadable},
		{"not found", fmt.Errorf("%w: ghost.py", types.ErrNotFound), ErrorCodeNotFound},
		{"unknown is internal", errors.New("disk fell over"), ErrorCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toolError(tt.err)

			var mcpErr *MCPError
			require.ErrorAs(t, err, &mcpErr)
			assert.Equal(t, tt.code, mcpErr.Code)
			assert.NotEmpty(t, mcpErr.Message)
		})
	}
}

func TestMCPError_Error(t *testing.T) {
	err := newMCPError(ErrorCodeNotFound, "ghost.py", nil)
	assert.Equal(t, "MCP error -32005: ghost.py", err.Error())
}
