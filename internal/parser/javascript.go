package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// javascriptStrategy parses JavaScript with the tree-sitter grammar
type javascriptStrategy struct{}

func (*javascriptStrategy) Language() string { return "javascript" }

func (*javascriptStrategy) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

func (s *javascriptStrategy) Parse(path string, src []byte) (*types.ParseResult, error) {
	return parseECMAScript(path, src, javascript.GetLanguage(), "javascript")
}

// typescriptStrategy parses TypeScript with the tree-sitter grammars;
// .tsx files use the TSX variant.
type typescriptStrategy struct{}

func (*typescriptStrategy) Language() string     { return "typescript" }
func (*typescriptStrategy) Extensions() []string { return []string{".ts", ".tsx"} }

func (s *typescriptStrategy) Parse(path string, src []byte) (*types.ParseResult, error) {
	lang := typescript.GetLanguage()
	if strings.HasSuffix(strings.ToLower(path), ".tsx") {
		lang = tsx.GetLanguage()
	}
	return parseECMAScript(path, src, lang, "typescript")
}

// parseECMAScript runs the walk shared by the JavaScript language family
func parseECMAScript(path string, src []byte, lang *sitter.Language, tag string) (*types.ParseResult, error) {
	result := &types.ParseResult{Language: tag}

	tree, err := parseTree(lang, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	walkECMAScript(root, src, result)

	if err := checkUsable(path, root, result); err != nil {
		return nil, err
	}
	return result, nil
}

func walkECMAScript(node *sitter.Node, src []byte, result *types.ParseResult) {
	switch node.Type() {
	case "class_declaration", "abstract_class_declaration",
		"interface_declaration", "enum_declaration":
		addECMADecl(node, src, result, types.KindClass, "")

	case "function_declaration", "generator_function_declaration":
		addECMADecl(node, src, result, types.KindFunction, "")

	case "method_definition":
		if cls := ecmaEnclosingClass(node, src); cls != "" {
			addECMADecl(node, src, result, types.KindMethod, cls)
		} else {
			// Object literal shorthand method
			addECMADecl(node, src, result, types.KindFunction, "")
		}

	case "variable_declarator":
		// const handler = async () => {...} and function expressions
		if value := node.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function", "function_expression":
				addECMADecl(node, src, result, types.KindFunction, "")
			}
		}

	case "import_statement":
		ecmaImport(node, src, result)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil {
			walkECMAScript(child, src, result)
		}
	}
}

func addECMADecl(node *sitter.Node, src []byte, result *types.ParseResult, kind types.DeclKind, enclosing string) {
	name := fieldContent(node, "name", src)
	if name == "" {
		return
	}

	line := nodeLine(node)
	result.AddDeclaration(types.Declaration{
		Name:      name,
		Kind:      kind,
		Line:      line,
		Column:    nodeColumn(node),
		EndLine:   nodeEndLine(node),
		Signature: strings.TrimSpace(lineAt(src, line)),
		Enclosing: enclosing,
	})
}

// ecmaEnclosingClass returns the name of the class whose body contains a
// method_definition, or "" for object-literal methods and anonymous
// class expressions.
func ecmaEnclosingClass(node *sitter.Node, src []byte) string {
	body := node.Parent()
	if body == nil || body.Type() != "class_body" {
		return ""
	}
	owner := body.Parent()
	if owner == nil {
		return ""
	}
	switch owner.Type() {
	case "class_declaration", "abstract_class_declaration", "class":
		return fieldContent(owner, "name", src)
	}
	return ""
}

// ecmaImport handles default, named, namespace, and side-effect imports
func ecmaImport(node *sitter.Node, src []byte, result *types.ParseResult) {
	line := nodeLine(node)
	statement := strings.TrimSpace(lineAt(src, line))
	module := strings.Trim(fieldContent(node, "source", src), "\"'`")

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

	clause := findChildType(node, "import_clause")
	if clause == nil {
		// Side-effect import: import "./styles.css"
		add(module, "")
		return
	}

	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier": // default import
			add(child.Content(src), "")
		case "namespace_import": // import * as ns from "m"
			if id := findChildType(child, "identifier"); id != nil {
				add("*", id.Content(src))
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec == nil || spec.Type() != "import_specifier" {
					continue
				}
				add(fieldContent(spec, "name", src), fieldContent(spec, "alias", src))
			}
		}
	}
}
