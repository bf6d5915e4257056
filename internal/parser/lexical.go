package parser

import (
	"regexp"
	"strings"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// lexicalRule is one pattern in a language's lexical table. name and
// enclosing are capture-group indexes; enclosing 0 means the rule has no
// enclosing-scope group.
type lexicalRule struct {
	kind      types.DeclKind
	re        *regexp.Regexp
	name      int
	enclosing int
}

func rule(kind types.DeclKind, expr string) lexicalRule {
	return lexicalRule{kind: kind, re: regexp.MustCompile(expr), name: 1}
}

// lexicalStrategy extracts declarations with anchored regular
// expressions. Intentionally shallow, not a parser: it is the fallback
// tier when a structural strategy rejects a file outright, and the only
// tier for languages without a registered grammar. Good enough for
// navigation; never the place for precision.
type lexicalStrategy struct {
	language string
	exts     []string
	rules    []lexicalRule
}

func (s *lexicalStrategy) Language() string     { return s.language }
func (s *lexicalStrategy) Extensions() []string { return s.exts }

func (s *lexicalStrategy) Parse(path string, src []byte) (*types.ParseResult, error) {
	result := &types.ParseResult{Language: s.language}

	for _, r := range s.rules {
		for _, m := range r.re.FindAllSubmatchIndex(src, -1) {
			name := captureGroup(src, m, r.name)
			if name == "" {
				continue
			}

			line, col := positionOf(src, m[2*r.name])
			statement := strings.TrimSpace(lineAt(src, line))

			if r.kind == types.KindImport {
				result.AddImport(types.ImportRecord{
					Name:      name,
					Module:    name,
					Statement: statement,
					Line:      line,
				})
				continue
			}

			decl := types.Declaration{
				Name:      name,
				Kind:      r.kind,
				Line:      line,
				Column:    col,
				Signature: statement,
			}
			if r.enclosing > 0 {
				decl.Enclosing = captureGroup(src, m, r.enclosing)
				if decl.Enclosing == "" && decl.Kind == types.KindMethod {
					decl.Kind = types.KindFunction
				}
			}
			result.AddDeclaration(decl)
		}
	}

	return result, nil
}

// captureGroup returns the text of capture group n, or ""
func captureGroup(src []byte, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return string(src[m[2*n]:m[2*n+1]])
}

func jsLexicalRules() []lexicalRule {
	return []lexicalRule{
		rule(types.KindClass, `(?m)^[ \t]*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`),
		rule(types.KindFunction, `(?m)^[ \t]*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`),
		rule(types.KindFunction, `(?m)^[ \t]*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s*)?(?:\([^)\n]*\)|[A-Za-z_$][\w$]*)\s*=>`),
		rule(types.KindImport, `(?m)^[ \t]*import\s+[^'"\n]*from\s+['"]([^'"\n]+)['"]`),
		rule(types.KindImport, `(?m)^[ \t]*import\s+['"]([^'"\n]+)['"]`),
		rule(types.KindImport, `(?m)\brequire\(\s*['"]([^'"\n]+)['"]\s*\)`),
	}
}

// lexicalTiers defines every built-in lexical table. Languages that also
// have a structural strategy (go, python, javascript, typescript) appear
// here as their fallback tier; the rest are lexical-only.
func lexicalTiers() []*lexicalStrategy {
	return []*lexicalStrategy{
		{
			language: "python",
			exts:     []string{".py", ".pyw"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*class\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`),
				rule(types.KindImport, `(?m)^[ \t]*import\s+([\w.]+)`),
				rule(types.KindImport, `(?m)^[ \t]*from\s+([\w.]+)\s+import\b`),
			},
		},
		{
			language: "javascript",
			exts:     []string{".js", ".jsx", ".mjs", ".cjs"},
			rules:    jsLexicalRules(),
		},
		{
			language: "typescript",
			exts:     []string{".ts", ".tsx"},
			rules: append(jsLexicalRules(),
				rule(types.KindClass, `(?m)^[ \t]*(?:export\s+)?interface\s+([A-Za-z_$][\w$]*)`),
				rule(types.KindClass, `(?m)^[ \t]*(?:export\s+)?(?:const\s+)?enum\s+([A-Za-z_$][\w$]*)`),
			),
		},
		{
			language: "go",
			exts:     []string{".go"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^type\s+([A-Za-z_]\w*)\s+(?:struct|interface)\b`),
				rule(types.KindFunction, `(?m)^func\s+([A-Za-z_]\w*)\s*\(`),
				{
					kind:      types.KindMethod,
					re:        regexp.MustCompile(`(?m)^func\s+\(\s*\w*\s*\*?([A-Za-z_]\w*)(?:\[[^\]\n]*\])?\s*\)\s+([A-Za-z_]\w*)\s*\(`),
					name:      2,
					enclosing: 1,
				},
				rule(types.KindImport, `(?m)^import\s+(?:\w+\s+)?"([^"\n]+)"`),
			},
		},
		{
			language: "ruby",
			exts:     []string{".rb", ".rake"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:class|module)\s+([A-Z]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*def\s+(?:self\.)?([a-z_]\w*[?!=]?)`),
				rule(types.KindImport, `(?m)^[ \t]*require(?:_relative)?\s+['"]([^'"\n]+)['"]`),
			},
		},
		{
			language: "java",
			exts:     []string{".java"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:(?:public|private|protected|abstract|final|static)\s+)*(?:class|interface|enum|record)\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*(?:(?:public|protected|private|static|final|synchronized|native|abstract|default)\s+)+[\w<>\[\].?]+\s+([A-Za-z_]\w*)\s*\(`),
				rule(types.KindImport, `(?m)^[ \t]*import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`),
			},
		},
		{
			language: "c",
			exts:     []string{".c", ".h"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:typedef\s+)?(?:struct|enum|union)\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[A-Za-z_][\w \t\*]*[ \t\*]([A-Za-z_]\w*)\s*\([^;\n]*$`),
				rule(types.KindImport, `(?m)^[ \t]*#include\s+[<"]([^>"\n]+)[>"]`),
			},
		},
		{
			language: "cpp",
			exts:     []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:class|struct|enum|union)\s+([A-Za-z_]\w*)\b`),
				{
					kind:      types.KindMethod,
					re:        regexp.MustCompile(`(?m)^[ \t]*(?:[\w:<>\*& \t~]+[ \t])?([A-Za-z_]\w*)::([A-Za-z_~]\w*)\s*\(`),
					name:      2,
					enclosing: 1,
				},
				rule(types.KindFunction, `(?m)^[ \t]*(?:inline\s+)?[A-Za-z_][\w:<>\*& \t]*[ \t\*&]([A-Za-z_]\w*)\s*\([^;\n]*$`),
				rule(types.KindImport, `(?m)^[ \t]*#include\s+[<"]([^>"\n]+)[>"]`),
			},
		},
		{
			language: "csharp",
			exts:     []string{".cs"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:[A-Za-z]+\s+)*(?:class|struct|interface|enum|record)\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*(?:(?:public|internal|protected|private|static|virtual|override|sealed|async|extern|unsafe|new)\s+)+[\w<>\[\].?]+\s+([A-Za-z_]\w*)\s*\(`),
				rule(types.KindImport, `(?m)^[ \t]*using\s+([\w.]+)\s*;`),
			},
		},
		{
			language: "php",
			exts:     []string{".php"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:abstract\s+|final\s+)?(?:class|interface|trait)\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*(?:(?:public|protected|private|static|abstract|final)\s+)*function\s+&?([A-Za-z_]\w*)\s*\(`),
				rule(types.KindImport, `(?m)^[ \t]*use\s+([\w\\]+)`),
			},
		},
		{
			language: "rust",
			exts:     []string{".rs"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:pub(?:\([^)\n]*\))?\s+)?(?:struct|enum|trait)\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*(?:pub(?:\([^)\n]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+([A-Za-z_]\w*)`),
				rule(types.KindImport, `(?m)^[ \t]*use\s+([\w:]+)`),
			},
		},
		{
			language: "kotlin",
			exts:     []string{".kt", ".kts"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:(?:public|internal|private|abstract|final|open|data|sealed)\s+)*(?:class|interface|object)\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*(?:(?:public|internal|private|protected|suspend|inline|override)\s+)*fun\s+(?:[A-Za-z_]\w*\.)?([A-Za-z_]\w*)\s*\(`),
				rule(types.KindImport, `(?m)^[ \t]*import\s+([\w.]+(?:\.\*)?)`),
			},
		},
		{
			language: "swift",
			exts:     []string{".swift"},
			rules: []lexicalRule{
				rule(types.KindClass, `(?m)^[ \t]*(?:(?:public|private|internal|open|final)\s+)*(?:class|struct|enum|protocol)\s+([A-Za-z_]\w*)`),
				rule(types.KindFunction, `(?m)^[ \t]*(?:(?:public|private|internal|open|static|override)\s+)*func\s+([A-Za-z_]\w*)`),
				rule(types.KindImport, `(?m)^[ \t]*import\s+([\w.]+)`),
			},
		},
		{
			language: "shell",
			exts:     []string{".sh", ".bash"},
			rules: []lexicalRule{
				rule(types.KindFunction, `(?m)^[ \t]*(?:function\s+)?([A-Za-z_]\w*)\s*\(\)\s*\{`),
				rule(types.KindImport, `(?m)^[ \t]*(?:source|\.)[ \t]+([^\s;]+)`),
			},
		},
	}
}
