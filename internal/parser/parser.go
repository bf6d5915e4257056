package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/codescope-mcp/internal/textutil"
	"github.com/dshills/codescope-mcp/pkg/types"
)

// Version tags the extraction logic. It is persisted alongside cached
// parse results; cached rows written by a different version are ignored
// and the file is re-parsed.
const Version = "1.0.0"

// Strategy is one language's declaration extractor. Parse receives the
// project-relative path (used for attribution, not I/O) and UTF-8
// normalized source text, and returns the declarations and imports it
// could extract. A strategy returns an error only when it produced
// nothing usable; recoverable syntax problems are recorded on the result
// instead.
type Strategy interface {
	Language() string
	Extensions() []string
	Parse(path string, src []byte) (*types.ParseResult, error)
}

// Parser dispatches source files to language strategies by extension.
// Structural strategies (AST or syntax-tree based) run first; when one
// fails outright, the language's lexical tier runs instead, so callers
// see a single parse capability that degrades rather than fails on broken
// or work-in-progress code.
type Parser struct {
	byExt   map[string]Strategy
	lexical map[string]*lexicalStrategy
}

// New creates a Parser with every built-in strategy registered
func New() *Parser {
	p := &Parser{
		byExt:   make(map[string]Strategy),
		lexical: make(map[string]*lexicalStrategy),
	}

	p.Register(&goStrategy{})
	p.Register(&pythonStrategy{})
	p.Register(&javascriptStrategy{})
	p.Register(&typescriptStrategy{})

	for _, lex := range lexicalTiers() {
		p.RegisterLexical(lex)
	}

	return p
}

// Register adds a structural strategy for its extensions, replacing any
// prior registration. Adding a language is a Register call, not a new
// branch in dispatch logic.
func (p *Parser) Register(s Strategy) {
	for _, ext := range s.Extensions() {
		p.byExt[strings.ToLower(ext)] = s
	}
}

// RegisterLexical adds a lexical tier. It becomes the fallback for its
// language, and the primary strategy for any of its extensions that has
// no structural strategy registered.
func (p *Parser) RegisterLexical(lex *lexicalStrategy) {
	p.lexical[lex.Language()] = lex
	for _, ext := range lex.Extensions() {
		ext = strings.ToLower(ext)
		if _, ok := p.byExt[ext]; !ok {
			p.byExt[ext] = lex
		}
	}
}

// LanguageFor returns the language tag for path, or "" when no strategy
// recognizes its extension.
func (p *Parser) LanguageFor(path string) string {
	if s, ok := p.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return s.Language()
	}
	return ""
}

// Recognizes reports whether path has a registered strategy
func (p *Parser) Recognizes(path string) bool {
	return p.LanguageFor(path) != ""
}

// Extensions returns the sorted set of registered extensions
func (p *Parser) Extensions() []string {
	exts := make([]string, 0, len(p.byExt))
	for ext := range p.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse extracts declarations and imports from one source file. path is
// recorded on every declaration and should be project-relative; src is
// the raw file content. Parse fails only when no strategy is registered
// for the extension or the content cannot be decoded as text. Syntax
// errors never fail the parse: the structural tier keeps whatever partial
// results it reached, or the lexical tier takes over, and the problem is
// reported through ParseResult.Errors.
func (p *Parser) Parse(path string, src []byte) (*types.ParseResult, error) {
	ext := strings.ToLower(filepath.Ext(path))
	strat, ok := p.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("no parser registered for %q files", ext)
	}

	norm, _, err := textutil.Normalize(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	result, perr := strat.Parse(path, norm)
	if perr != nil {
		lex, ok := p.lexical[strat.Language()]
		if !ok || Strategy(lex) == strat {
			return nil, perr
		}
		result, err = lex.Parse(path, norm)
		if err != nil {
			return nil, err
		}
		result.AddError(path, 0, 0, fmt.Sprintf("structural parse failed, lexical extraction used: %v", perr))
	}

	p.finish(path, result)
	return result, nil
}

// finish stamps file and language attribution, derives the import
// declarations, and puts everything in deterministic source order.
func (p *Parser) finish(path string, result *types.ParseResult) {
	for i := range result.Declarations {
		result.Declarations[i].File = path
		result.Declarations[i].Language = result.Language
	}
	for i := range result.Imports {
		result.Imports[i].File = path
	}

	// Imports are declarations too, so the symbol index can answer
	// kind=import queries alongside classes and functions.
	for _, imp := range result.Imports {
		result.Declarations = append(result.Declarations, types.Declaration{
			Name:      imp.Name,
			Kind:      types.KindImport,
			File:      path,
			Line:      imp.Line,
			Column:    1,
			Signature: imp.Statement,
			Language:  result.Language,
		})
	}

	sort.SliceStable(result.Declarations, func(i, j int) bool {
		a, b := result.Declarations[i], result.Declarations[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Name < b.Name
	})
	sort.SliceStable(result.Imports, func(i, j int) bool {
		a, b := result.Imports[i], result.Imports[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Name < b.Name
	})
}

// positionOf converts a byte offset into a 1-indexed line and column
func positionOf(src []byte, off int) (line, col int) {
	line = 1 + bytes.Count(src[:off], []byte("\n"))
	start := bytes.LastIndexByte(src[:off], '\n') + 1
	return line, off - start + 1
}

// lineAt returns the 1-indexed line from src without its terminator
func lineAt(src []byte, line int) string {
	if line < 1 {
		return ""
	}
	rest := src
	for n := 1; n < line; n++ {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			return ""
		}
		rest = rest[i+1:]
	}
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSuffix(string(rest), "\r")
}
