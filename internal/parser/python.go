package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// pythonStrategy parses Python source with the tree-sitter grammar.
// Functions declared directly in a class body (including through
// decorated_definition wrappers) are reported as methods with the class
// as enclosing scope.
type pythonStrategy struct{}

func (*pythonStrategy) Language() string     { return "python" }
func (*pythonStrategy) Extensions() []string { return []string{".py", ".pyw"} }

func (s *pythonStrategy) Parse(path string, src []byte) (*types.ParseResult, error) {
	result := &types.ParseResult{Language: "python"}

	tree, err := parseTree(python.GetLanguage(), src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	s.walk(root, src, result)

	if err := checkUsable(path, root, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *pythonStrategy) walk(node *sitter.Node, src []byte, result *types.ParseResult) {
	switch node.Type() {
	case "class_definition":
		if name := fieldContent(node, "name", src); name != "" {
			result.AddDeclaration(types.Declaration{
				Name:      name,
				Kind:      types.KindClass,
				Line:      nodeLine(node),
				Column:    nodeColumn(node),
				EndLine:   nodeEndLine(node),
				Signature: pythonSignature(node, src),
			})
		}

	case "function_definition":
		if name := fieldContent(node, "name", src); name != "" {
			decl := types.Declaration{
				Name:      name,
				Kind:      types.KindFunction,
				Line:      nodeLine(node),
				Column:    nodeColumn(node),
				EndLine:   nodeEndLine(node),
				Signature: pythonSignature(node, src),
			}
			if cls := pythonEnclosingClass(node, src); cls != "" {
				decl.Kind = types.KindMethod
				decl.Enclosing = cls
			}
			result.AddDeclaration(decl)
		}

	case "import_statement":
		s.plainImport(node, src, result)

	case "import_from_statement":
		s.fromImport(node, src, result)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil {
			s.walk(child, src, result)
		}
	}
}

// pythonEnclosingClass returns the name of the class whose body directly
// contains node. Two shapes occur: def -> block -> class_definition, and
// def -> decorated_definition -> block -> class_definition. Functions
// nested inside other functions stay plain functions.
func pythonEnclosingClass(node *sitter.Node, src []byte) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}
	if parent.Type() == "decorated_definition" {
		parent = parent.Parent()
		if parent == nil {
			return ""
		}
	}
	if parent.Type() == "block" && parent.Parent() != nil && parent.Parent().Type() == "class_definition" {
		return fieldContent(parent.Parent(), "name", src)
	}
	return ""
}

// pythonSignature builds a compact one-line signature for a class or
// function definition node.
func pythonSignature(node *sitter.Node, src []byte) string {
	name := fieldContent(node, "name", src)

	if node.Type() == "class_definition" {
		if bases := fieldContent(node, "superclasses", src); bases != "" {
			return "class " + name + collapseWhitespace(bases)
		}
		return "class " + name
	}

	sig := "def " + name + collapseWhitespace(fieldContent(node, "parameters", src))
	if ret := fieldContent(node, "return_type", src); ret != "" {
		sig += " -> " + collapseWhitespace(ret)
	}
	return sig
}

// plainImport handles "import a.b as c, d"
func (s *pythonStrategy) plainImport(node *sitter.Node, src []byte, result *types.ParseResult) {
	line := nodeLine(node)
	statement := strings.TrimSpace(lineAt(src, line))

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			name := child.Content(src)
			result.AddImport(types.ImportRecord{
				Name:      name,
				Module:    name,
				Statement: statement,
				Line:      line,
			})
		case "aliased_import":
			name := fieldContent(child, "name", src)
			if name == "" {
				continue
			}
			result.AddImport(types.ImportRecord{
				Name:      name,
				Module:    name,
				Alias:     fieldContent(child, "alias", src),
				Statement: statement,
				Line:      line,
			})
		}
	}
}

// fromImport handles "from x import y as z, w" including wildcard and
// relative forms.
func (s *pythonStrategy) fromImport(node *sitter.Node, src []byte, result *types.ParseResult) {
	line := nodeLine(node)
	statement := strings.TrimSpace(lineAt(src, line))
	module := fieldContent(node, "module_name", src)

	add := func(name, alias string) {
		if name == "" {
			return
		}
		result.AddImport(types.ImportRecord{
			Name:      name,
			Module:    module,
			Alias:     alias,
			Statement: statement,
			Line:      line,
		})
	}

	// Names come after the "import" keyword; the module name precedes it
	seenImport := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if !seenImport {
			seenImport = child.Type() == "import"
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier":
			add(child.Content(src), "")
		case "aliased_import":
			add(fieldContent(child, "name", src), fieldContent(child, "alias", src))
		case "wildcard_import":
			add("*", "")
		}
	}
}
