package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/codescope-mcp/internal/indexer"
	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/internal/session"
	"github.com/dshills/codescope-mcp/internal/storage"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// IndexingTestSuite contains tests for the explore and indexing pipeline
type IndexingTestSuite struct {
	suite.Suite
	storage     storage.Storage
	manager     *session.Manager
	fixturesDir string
	ctx         context.Context
}

// SetupSuite runs once before all tests
func (s *IndexingTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Get fixtures directory
	wd, err := os.Getwd()
	s.Require().NoError(err)
	s.fixturesDir = filepath.Join(filepath.Dir(wd), "testdata", "fixtures")

	// Verify fixtures exist
	_, err = os.Stat(s.fixturesDir)
	s.Require().NoError(err, "fixtures directory should exist")
}

// SetupTest runs before each test
func (s *IndexingTestSuite) SetupTest() {
	// Create fresh in-memory storage for each test
	store, err := storage.NewSQLiteStorage(":memory:")
	s.Require().NoError(err)
	s.storage = store

	// Create session manager
	config := &indexer.Config{
		Workers:   2,
		BatchSize: 10,
	}
	s.manager = session.NewManager(store, parser.New(), config)
}

// TearDownTest runs after each test
func (s *IndexingTestSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// TestFullExplore tests the complete explore pipeline
func (s *IndexingTestSuite) TestFullExplore() {
	sess, err := s.manager.Explore(s.ctx, s.fixturesDir)
	s.Require().NoError(err, "explore should succeed")
	s.NotNil(sess)

	// Verify statistics
	stats := sess.Statistics()
	s.T().Logf("Index stats: %+v", stats)
	s.Equal(7, stats.FilesParsed, "all code files parse on a cold cache")
	s.Equal(0, stats.FilesCached)
	s.Equal(0, stats.FilesFailed)
	s.Greater(stats.Declarations, 15, "should extract declarations")
	s.Greater(stats.Imports, 3, "should extract imports")

	// Verify inventory
	overview := sess.Overview()
	s.Equal(8, overview.FileCount)
	s.Equal(7, overview.CodeFileCount)
	s.Equal(4, overview.DirCount)
	s.Equal(3, overview.Extensions[".py"])
	s.Equal(1, overview.Extensions[".go"])

	// Verify language attribution across parser tiers
	s.Equal("python", sess.LanguageFor("services/auth.py"))
	s.Equal("javascript", sess.LanguageFor("web/client.js"))
	s.Equal("typescript", sess.LanguageFor("web/api.ts"))
	s.Equal("go", sess.LanguageFor("tools/report.go"))
	s.Equal("shell", sess.LanguageFor("scripts/build.sh"))
	s.Equal("", sess.LanguageFor("README.md"))

	// Verify symbols landed in the index
	idx := sess.Index()
	decls := idx.Lookup("sign_token", "", true)
	s.Require().Len(decls, 1)
	s.Equal("services/tokens.py", decls[0].File)
	s.Equal(5, decls[0].Line)
	s.Equal(types.KindFunction, decls[0].Kind)

	defs := idx.FindDefinition("AuthService")
	s.Require().Len(defs, 1)
	s.Equal("services/auth.py", defs[0].File)
	s.Equal(types.KindClass, defs[0].Kind)

	// The import of AuthService in main.py is indexed as an import kind
	imports := idx.Lookup("AuthService", types.KindImport, true)
	s.Require().Len(imports, 1)
	s.Equal("main.py", imports[0].File)
}

// TestWarmCacheExplore tests that a second explore serves parses from storage
func (s *IndexingTestSuite) TestWarmCacheExplore() {
	first, err := s.manager.Explore(s.ctx, s.fixturesDir)
	s.Require().NoError(err)
	s.Equal(7, first.Statistics().FilesParsed)

	second, err := s.manager.Explore(s.ctx, s.fixturesDir)
	s.Require().NoError(err)

	stats := second.Statistics()
	s.T().Logf("Warm explore stats: %+v", stats)
	s.Equal(0, stats.FilesParsed, "unchanged files should not re-parse")
	s.Equal(7, stats.FilesCached)

	// The rebuilt index is equivalent
	s.Len(second.Index().Lookup("sign_token", "", true), 1)
}

// TestChangedFileReparsed tests that edits invalidate the stored parse
func (s *IndexingTestSuite) TestChangedFileReparsed() {
	root := s.T().TempDir()
	target := filepath.Join(root, "calc.py")
	s.Require().NoError(os.WriteFile(target, []byte("def add(a, b):\n    return a + b\n"), 0644))

	sess, err := s.manager.Explore(s.ctx, root)
	s.Require().NoError(err)
	s.Equal(1, sess.Statistics().FilesParsed)
	s.Len(sess.Index().Lookup("add", "", true), 1)

	// Rewrite the file with an extra function
	s.Require().NoError(os.WriteFile(target, []byte("def add(a, b):\n    return a + b\n\n\ndef sub(a, b):\n    return a - b\n"), 0644))

	sess, err = s.manager.Explore(s.ctx, root)
	s.Require().NoError(err)

	stats := sess.Statistics()
	s.Equal(1, stats.FilesParsed, "changed file should re-parse")
	s.Len(sess.Index().Lookup("sub", "", true), 1)
}

// TestProjectPersisted tests that explore records the project in storage
func (s *IndexingTestSuite) TestProjectPersisted() {
	sess, err := s.manager.Explore(s.ctx, s.fixturesDir)
	s.Require().NoError(err)

	project, err := s.storage.GetProject(s.ctx, sess.Root())
	s.Require().NoError(err)
	s.Equal(sess.Root(), project.RootPath)
	s.Greater(project.TotalFiles, 0)
	s.False(project.LastIndexedAt.IsZero())

	status, err := s.manager.Status(s.ctx)
	s.Require().NoError(err)
	s.Equal(7, status.FilesCount)
	s.Greater(status.DeclarationsCount, 0)
	s.Greater(status.ImportsCount, 0)
}

// TestCurrentBeforeExplore tests the no-session error
func (s *IndexingTestSuite) TestCurrentBeforeExplore() {
	_, err := s.manager.Current()
	s.ErrorIs(err, types.ErrNoActiveProject)
}

// TestExploreValidation tests project root validation
func (s *IndexingTestSuite) TestExploreValidation() {
	tests := []struct {
		name string
		root string
		want error
	}{
		{
			name: "empty path",
			root: "",
			want: types.ErrProjectPathRequired,
		},
		{
			name: "nonexistent path",
			root: filepath.Join(s.T().TempDir(), "nowhere"),
			want: types.ErrProjectPathNotFound,
		},
		{
			name: "path is a file",
			root: filepath.Join(s.fixturesDir, "main.py"),
			want: types.ErrProjectPathNotDirectory,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.manager.Explore(s.ctx, tt.root)
			s.ErrorIs(err, tt.want)
		})
	}
}

// TestIndexingTestSuite runs the suite
func TestIndexingTestSuite(t *testing.T) {
	suite.Run(t, new(IndexingTestSuite))
}
