package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// parseTree runs tree-sitter for lang over src. The caller must Close the
// returned tree.
func parseTree(lang *sitter.Language, src []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(lang)

	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	if tree.RootNode() == nil {
		tree.Close()
		return nil, fmt.Errorf("tree-sitter produced no syntax tree")
	}
	return tree, nil
}

// checkUsable decides whether an error-bearing tree still counts. A tree
// with errors that produced nothing falls back to the lexical tier; a
// partial extraction is kept with the degradation recorded on the result.
func checkUsable(path string, root *sitter.Node, result *types.ParseResult) error {
	if !root.HasError() {
		return nil
	}
	if len(result.Declarations) == 0 && len(result.Imports) == 0 {
		return fmt.Errorf("syntax tree for %s contains only errors", path)
	}
	result.AddError(path, 0, 0, "syntax errors present; declarations are best-effort")
	return nil
}

// nodeLine returns the 1-indexed line a node starts on
func nodeLine(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

// nodeColumn returns the 1-indexed column a node starts at
func nodeColumn(n *sitter.Node) int { return int(n.StartPoint().Column) + 1 }

// nodeEndLine returns the 1-indexed line a node ends on
func nodeEndLine(n *sitter.Node) int { return int(n.EndPoint().Row) + 1 }

// fieldContent returns the text of a node's named field, or ""
func fieldContent(n *sitter.Node, field string, src []byte) string {
	child := n.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(src)
}

// findChildType returns the first direct child with the given type
func findChildType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// collapseWhitespace flattens runs of whitespace so multi-line parameter
// lists read as one signature line.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
