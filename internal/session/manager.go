package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/codescope-mcp/internal/indexer"
	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/internal/storage"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// Manager owns the components a session is built from and publishes the
// active session. The transport constructs one Manager per process.
type Manager struct {
	store   storage.Storage
	parser  *parser.Parser
	indexer *indexer.Indexer
	config  *indexer.Config

	lock    indexer.BuildLock
	current atomic.Pointer[Session]
}

// NewManager creates a Manager. config may be nil for defaults.
func NewManager(store storage.Storage, p *parser.Parser, config *indexer.Config) *Manager {
	return &Manager{
		store:   store,
		parser:  p,
		indexer: indexer.New(p, store),
		config:  config,
	}
}

// Explore establishes a new session for root: validates it, scans the
// inventory, builds the symbol index, and swaps the session in. Last
// write wins; any prior session is discarded wholesale. A concurrent
// explore fails fast with ErrIndexingInProgress rather than queue.
func (m *Manager) Explore(ctx context.Context, root string) (*Session, error) {
	abs, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	if !m.lock.TryAcquire() {
		return nil, types.ErrIndexingInProgress
	}
	defer m.lock.Release()

	inv, err := scanTree(abs, m.parser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	codeFiles := make([]string, 0, len(inv.records))
	for _, rec := range inv.records {
		if rec.CodeFile {
			codeFiles = append(codeFiles, rec.Path)
		}
	}

	index, stats, err := m.indexer.Build(ctx, abs, codeFiles, m.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	sess, err := newSession(abs, inv, m.parser, index, stats)
	if err != nil {
		return nil, err
	}
	m.current.Store(sess)
	return sess, nil
}

// Current returns the active session or ErrNoActiveProject
func (m *Manager) Current() (*Session, error) {
	if sess := m.current.Load(); sess != nil {
		return sess, nil
	}
	return nil, types.ErrNoActiveProject
}

// Status reports storage-side statistics for the active project
func (m *Manager) Status(ctx context.Context) (*storage.ProjectStatus, error) {
	sess, err := m.Current()
	if err != nil {
		return nil, err
	}

	project, err := m.store.GetProject(ctx, sess.Root())
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return m.store.GetStatus(ctx, project.ID)
}

// validateRoot normalizes and checks a requested project root
func validateRoot(root string) (string, error) {
	if root == "" {
		return "", types.ErrProjectPathRequired
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrProjectPathRequired, err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", types.ErrProjectPathNotFound, root)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat project path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", types.ErrProjectPathNotDirectory, root)
	}
	return abs, nil
}
