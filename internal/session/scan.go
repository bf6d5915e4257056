package session

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dshills/codescope-mcp/internal/parser"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// skipDirs are dependency, build, and tool directories never worth
// scanning, applied identically by every component that sees the inventory
var skipDirs = map[string]struct{}{
	".git":          {},
	"node_modules":  {},
	"vendor":        {},
	"venv":          {},
	"env":           {},
	"__pycache__":   {},
	".pytest_cache": {},
	"dist":          {},
	"build":         {},
	"target":        {},
	".idea":         {},
	".vscode":       {},
	".next":         {},
	"coverage":      {},
}

// keepHidden are dotfiles carried despite the hidden-file rule
var keepHidden = map[string]struct{}{
	".gitignore":   {},
	".env.example": {},
}

// StructureEntry is one top-level item of the project root
type StructureEntry struct {
	Name string
	Type string // "directory" or "file"
	Size int64  // files only
}

// inventory is the result of one project scan
type inventory struct {
	records   []types.FileRecord
	dirCount  int
	structure []StructureEntry
}

// scanTree walks root and produces the sorted file inventory. Unreadable
// entries are skipped rather than failing the walk, symlinks are never
// followed (which also forecloses symlink cycles), and a root .gitignore
// is honored on top of the built-in exclusions. Scanning an unchanged
// tree twice yields an identical inventory.
func scanTree(root string, p *parser.Parser) (*inventory, error) {
	gi := loadGitignore(root)

	inv := &inventory{
		records:   make([]types.FileRecord, 0, 256),
		structure: make([]StructureEntry, 0, 32),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			inv.dirCount++
			if filepath.Dir(path) == root {
				inv.structure = append(inv.structure, StructureEntry{Name: name, Type: "directory"})
			}
			return nil
		}

		// WalkDir reports symlinks as non-dir entries regardless of target
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if strings.HasPrefix(name, ".") {
			if _, keep := keepHidden[name]; !keep {
				return nil
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		language := p.LanguageFor(name)
		inv.records = append(inv.records, types.FileRecord{
			Path:     rel,
			Language: language,
			CodeFile: language != "",
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
		if filepath.Dir(path) == root {
			inv.structure = append(inv.structure, StructureEntry{Name: name, Type: "file", Size: info.Size()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(inv.records, func(i, j int) bool {
		return inv.records[i].Path < inv.records[j].Path
	})
	sort.Slice(inv.structure, func(i, j int) bool {
		return inv.structure[i].Name < inv.structure[j].Name
	})

	return inv, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
