package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// goStrategy parses Go source with the standard library AST. Syntax
// errors still yield a partial AST; whatever declarations survive are
// extracted and the error is recorded on the result.
type goStrategy struct{}

func (*goStrategy) Language() string     { return "go" }
func (*goStrategy) Extensions() []string { return []string{".go"} }

func (g *goStrategy) Parse(path string, src []byte) (*types.ParseResult, error) {
	result := &types.ParseResult{Language: "go"}
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		if file == nil {
			return nil, fmt.Errorf("go parse: %w", err)
		}
		// Non-fatal: continue with the partial AST
		result.AddError(path, 0, 0, fmt.Sprintf("syntax error: %v", err))
	}

	g.extractImports(fset, file, src, result)

	ex := &goExtractor{fset: fset, result: result}
	ast.Inspect(file, ex.visit)

	return result, nil
}

// extractImports converts the file's import specs into ImportRecords.
// Name is the identifier the import binds (alias when present, else the
// final path segment), Module the full import path.
func (g *goStrategy) extractImports(fset *token.FileSet, file *ast.File, src []byte, result *types.ParseResult) {
	for _, imp := range file.Imports {
		if imp.Path == nil {
			continue
		}
		module := strings.Trim(imp.Path.Value, `"`)
		line := fset.Position(imp.Pos()).Line

		rec := types.ImportRecord{
			Name:      module[strings.LastIndex(module, "/")+1:],
			Module:    module,
			Statement: strings.TrimSpace(lineAt(src, line)),
			Line:      line,
		}
		if imp.Name != nil {
			rec.Alias = imp.Name.Name
			if rec.Alias != "." && rec.Alias != "_" {
				rec.Name = rec.Alias
			}
		}
		result.AddImport(rec)
	}
}

// goExtractor is a visitor for AST traversal that extracts declarations
type goExtractor struct {
	fset   *token.FileSet
	result *types.ParseResult
}

// visit is called for each AST node during traversal
func (e *goExtractor) visit(node ast.Node) bool {
	if node == nil {
		return false
	}

	switch n := node.(type) {
	case *ast.FuncDecl:
		e.extractFunction(n)
	case *ast.GenDecl:
		e.extractGenDecl(n)
	}

	return true
}

// extractFunction extracts function and method declarations
func (e *goExtractor) extractFunction(funcDecl *ast.FuncDecl) {
	if funcDecl.Name == nil {
		return
	}

	pos := e.fset.Position(funcDecl.Pos())
	decl := types.Declaration{
		Name:      funcDecl.Name.Name,
		Kind:      types.KindFunction,
		Line:      pos.Line,
		Column:    pos.Column,
		EndLine:   e.fset.Position(funcDecl.End()).Line,
		Signature: e.functionSignature(funcDecl),
	}

	if funcDecl.Recv != nil && len(funcDecl.Recv.List) > 0 {
		if recv := e.receiverType(funcDecl.Recv.List[0].Type); recv != "" {
			decl.Kind = types.KindMethod
			decl.Enclosing = recv
		}
	}

	e.result.AddDeclaration(decl)
}

// extractGenDecl extracts type declarations; const and var declarations
// are not symbol kinds the index carries.
func (e *goExtractor) extractGenDecl(genDecl *ast.GenDecl) {
	if genDecl.Tok != token.TYPE {
		return
	}

	for _, spec := range genDecl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok || typeSpec.Name == nil {
			continue
		}

		pos := e.fset.Position(typeSpec.Pos())
		e.result.AddDeclaration(types.Declaration{
			Name:      typeSpec.Name.Name,
			Kind:      types.KindClass,
			Line:      pos.Line,
			Column:    pos.Column,
			EndLine:   e.fset.Position(typeSpec.End()).Line,
			Signature: e.typeSignature(typeSpec),
		})
	}
}

// receiverType extracts the receiver type name from a method
func (e *goExtractor) receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return e.receiverType(t.X)
	case *ast.IndexExpr:
		return e.receiverType(t.X)
	case *ast.IndexListExpr:
		return e.receiverType(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// functionSignature builds a function signature string
func (e *goExtractor) functionSignature(funcDecl *ast.FuncDecl) string {
	var sig strings.Builder

	sig.WriteString("func ")

	if funcDecl.Recv != nil && len(funcDecl.Recv.List) > 0 {
		sig.WriteString("(")
		sig.WriteString(e.exprToString(funcDecl.Recv.List[0].Type))
		sig.WriteString(") ")
	}

	sig.WriteString(funcDecl.Name.Name)

	sig.WriteString("(")
	if funcDecl.Type.Params != nil {
		sig.WriteString(e.fieldListToString(funcDecl.Type.Params))
	}
	sig.WriteString(")")

	if funcDecl.Type.Results != nil {
		results := e.fieldListToString(funcDecl.Type.Results)
		if results != "" {
			if funcDecl.Type.Results.NumFields() > 1 {
				sig.WriteString(" (")
				sig.WriteString(results)
				sig.WriteString(")")
			} else {
				sig.WriteString(" ")
				sig.WriteString(results)
			}
		}
	}

	return sig.String()
}

// typeSignature builds a type declaration signature string
func (e *goExtractor) typeSignature(typeSpec *ast.TypeSpec) string {
	name := typeSpec.Name.Name

	switch t := typeSpec.Type.(type) {
	case *ast.StructType:
		fieldCount := 0
		if t.Fields != nil {
			fieldCount = t.Fields.NumFields()
		}
		return fmt.Sprintf("type %s struct { ... } // %d fields", name, fieldCount)
	case *ast.InterfaceType:
		methodCount := 0
		if t.Methods != nil {
			methodCount = t.Methods.NumFields()
		}
		return fmt.Sprintf("type %s interface { ... } // %d methods", name, methodCount)
	default:
		return fmt.Sprintf("type %s %s", name, e.exprToString(typeSpec.Type))
	}
}

// fieldListToString converts a field list to a string representation
func (e *goExtractor) fieldListToString(fieldList *ast.FieldList) string {
	if fieldList == nil || len(fieldList.List) == 0 {
		return ""
	}

	var parts []string
	for _, field := range fieldList.List {
		typeStr := e.exprToString(field.Type)
		if len(field.Names) > 0 {
			for _, name := range field.Names {
				parts = append(parts, fmt.Sprintf("%s %s", name.Name, typeStr))
			}
		} else {
			parts = append(parts, typeStr)
		}
	}

	return strings.Join(parts, ", ")
}

// exprToString converts an expression to a string representation
func (e *goExtractor) exprToString(expr ast.Expr) string {
	if expr == nil {
		return ""
	}

	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + e.exprToString(t.X)
	case *ast.ArrayType:
		return "[]" + e.exprToString(t.Elt)
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", e.exprToString(t.Key), e.exprToString(t.Value))
	case *ast.ChanType:
		return "chan " + e.exprToString(t.Value)
	case *ast.FuncType:
		return "func(...)"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.SelectorExpr:
		return e.exprToString(t.X) + "." + t.Sel.Name
	case *ast.Ellipsis:
		return "..." + e.exprToString(t.Elt)
	default:
		return "..."
	}
}
