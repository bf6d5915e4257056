package session

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/codescope-mcp/internal/indexer"
	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/internal/textutil"
	"github.com/dshills/codescope-mcp/pkg/types"
)

const (
	// unitCacheSize bounds the per-session parsed-unit cache
	unitCacheSize = 512

	// maxStructureEntries caps the top-level structure in an overview
	maxStructureEntries = 20
)

// cachedUnit pairs a parse result with the content hash it came from
type cachedUnit struct {
	hash   [32]byte
	result *types.ParseResult
}

// Session is one established project context: the root, its file
// inventory, the symbol index, and a parsed-unit cache. The inventory is
// an immutable snapshot; the index pointer and the unit cache are the
// only mutable parts and both are safe for concurrent use.
type Session struct {
	root      string
	records   []types.FileRecord
	dirCount  int
	structure []StructureEntry
	createdAt time.Time

	parser *parser.Parser
	index  atomic.Pointer[indexer.Index]
	units  *lru.Cache[string, *cachedUnit]
	stats  *indexer.Statistics
}

func newSession(root string, inv *inventory, p *parser.Parser, idx *indexer.Index, stats *indexer.Statistics) (*Session, error) {
	units, err := lru.New[string, *cachedUnit](unitCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create unit cache: %w", err)
	}

	s := &Session{
		root:      root,
		records:   inv.records,
		dirCount:  inv.dirCount,
		structure: inv.structure,
		createdAt: time.Now(),
		parser:    p,
		units:     units,
		stats:     stats,
	}
	s.index.Store(idx)
	return s, nil
}

// Root returns the absolute project root
func (s *Session) Root() string {
	return s.root
}

// Files returns the inventory snapshot. The slice is shared; callers
// treat it as read-only.
func (s *Session) Files() []types.FileRecord {
	return s.records
}

// Index returns the current symbol index snapshot
func (s *Session) Index() *indexer.Index {
	return s.index.Load()
}

// Statistics returns the build statistics recorded at explore time
func (s *Session) Statistics() *indexer.Statistics {
	return s.stats
}

// LanguageFor reports the parser language for a file name, or "" when no
// strategy recognizes the extension
func (s *Session) LanguageFor(p string) string {
	return s.parser.LanguageFor(p)
}

// ResolvePath roots a caller-supplied path against the project. Absolute
// paths are accepted only inside the root; relative paths resolve against
// it. Escapes, including ".." traversal, fail with ErrPathOutsideProject.
func (s *Session) ResolvePath(rel string) (string, error) {
	if rel == "" || rel == "." {
		return s.root, nil
	}

	var abs string
	if filepath.IsAbs(rel) {
		abs = filepath.Clean(rel)
	} else {
		abs = filepath.Join(s.root, rel)
	}

	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", types.ErrPathOutsideProject, rel)
	}
	return abs, nil
}

// relPath converts an absolute path back to the inventory's slash form
func (s *Session) relPath(abs string) string {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// FileSlice is the result of a ranged read
type FileSlice struct {
	Path       string // Relative to the root
	Text       string
	StartLine  int // 1-indexed, inclusive
	EndLine    int // Inclusive; less than StartLine when the range is empty
	TotalLines int
	Size       int64 // Whole-file size in bytes, regardless of the range
	Encoding   string
}

// ReadFileRange returns a line range of one file. startLine and endLine
// are 1-indexed and inclusive; zero values mean "from the start" and "to
// the end". A range beyond the file yields empty text, not an error.
func (s *Session) ReadFileRange(p string, startLine, endLine int) (*FileSlice, error) {
	abs, err := s.ResolvePath(p)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, p)
		}
		return nil, fmt.Errorf("%w: %s: %v", types.ErrFileUnreadable, p, err)
	}

	text, encoding, err := textutil.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrFileUnreadable, p)
	}

	lines := textutil.Lines(text)
	total := len(lines)

	if startLine <= 0 {
		startLine = 1
	}
	if endLine <= 0 || endLine > total {
		endLine = total
	}

	slice := &FileSlice{
		Path:       s.relPath(abs),
		StartLine:  startLine,
		EndLine:    endLine,
		TotalLines: total,
		Size:       int64(len(data)),
		Encoding:   encoding,
	}
	if startLine <= endLine && startLine <= total {
		slice.Text = strings.Join(lines[startLine-1:endLine], "\n")
	}
	return slice, nil
}

// ListOptions filter a file listing
type ListOptions struct {
	Extension string // File extension, with or without the leading dot
	Recursive bool
	CodeOnly  bool
}

// ListFiles returns inventory records under dir, sorted by path. An empty
// dir means the project root.
func (s *Session) ListFiles(dir string, opts ListOptions) ([]types.FileRecord, error) {
	abs, err := s.ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", types.ErrInvalidQuery, dir)
	}

	prefix := s.relPath(abs)
	if prefix == "." {
		prefix = ""
	}

	ext := strings.ToLower(opts.Extension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	out := make([]types.FileRecord, 0)
	for _, rec := range s.records {
		local := rec.Path
		if prefix != "" {
			if !strings.HasPrefix(rec.Path, prefix+"/") {
				continue
			}
			local = rec.Path[len(prefix)+1:]
		}
		if !opts.Recursive && strings.Contains(local, "/") {
			continue
		}
		if opts.CodeOnly && !rec.CodeFile {
			continue
		}
		if ext != "" && strings.ToLower(path.Ext(rec.Path)) != ext {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Overview summarizes the active project
type Overview struct {
	Root               string
	FileCount          int
	DirCount           int
	CodeFileCount      int
	TotalSize          int64
	Extensions         map[string]int // histogram by file extension
	Structure          []StructureEntry
	StructureTruncated bool
	Declarations       int
	Imports            int
}

// Overview reports inventory and index statistics for the session
func (s *Session) Overview() *Overview {
	o := &Overview{
		Root:       s.root,
		FileCount:  len(s.records),
		DirCount:   s.dirCount,
		Extensions: make(map[string]int),
	}

	for _, rec := range s.records {
		if rec.CodeFile {
			o.CodeFileCount++
		}
		o.TotalSize += rec.Size
		if ext := path.Ext(rec.Path); ext != "" {
			o.Extensions[ext]++
		}
	}

	o.Structure = s.structure
	if len(o.Structure) > maxStructureEntries {
		o.Structure = o.Structure[:maxStructureEntries]
		o.StructureTruncated = true
	}

	idx := s.Index()
	o.Declarations = idx.DeclarationCount()
	o.Imports = idx.ImportCount()
	return o
}

// ParseUnit returns the parsed unit for one file, served from the LRU
// cache while the content hash matches. A changed file is re-parsed and
// the index snapshot refreshed, so symbol queries converge to current
// text without a full explore.
func (s *Session) ParseUnit(p string) (*types.ParseResult, error) {
	abs, err := s.ResolvePath(p)
	if err != nil {
		return nil, err
	}
	rel := s.relPath(abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, p)
		}
		return nil, fmt.Errorf("%w: %s: %v", types.ErrFileUnreadable, p, err)
	}
	hash := sha256.Sum256(data)

	if unit, ok := s.units.Get(rel); ok && unit.hash == hash {
		return unit.result, nil
	}

	result, err := s.parser.Parse(rel, data)
	if err != nil {
		return nil, err
	}

	s.units.Add(rel, &cachedUnit{hash: hash, result: result})
	s.refreshIndex(rel, result)
	return result, nil
}

// refreshIndex publishes an index snapshot with rel's entries replaced
func (s *Session) refreshIndex(rel string, result *types.ParseResult) {
	for {
		old := s.index.Load()
		if s.index.CompareAndSwap(old, old.WithFile(rel, result)) {
			return
		}
	}
}
