// Package parser extracts symbol declarations from source files across
// multiple languages.
//
// Dispatch is a registry keyed by file extension: Go files go through the
// standard library AST (go/parser, go/ast), while Python, JavaScript, and
// TypeScript go through their tree-sitter grammars. Every structurally
// parsed language also has a lexical regex tier that takes over when the
// structural parse fails outright, and a set of further languages (Ruby,
// Java, C/C++, C#, PHP, Rust, Kotlin, Swift, shell) is covered by the
// lexical tier alone. Callers never see which tier ran.
//
// # Basic Usage
//
//	p := parser.New()
//	result, err := p.Parse("src/models/user.py", content)
//	if err != nil {
//	    // no strategy for the extension, or undecodable content
//	}
//
//	for _, decl := range result.Declarations {
//	    fmt.Printf("%s %s at %s:%d\n", decl.Kind, decl.Name, decl.File, decl.Line)
//	}
//
// # Error Handling
//
// Syntax errors never fail a parse:
//
//	result, err := p.Parse("broken.py", content)
//	// err is nil even for syntax errors
//
//	if result.HasErrors() {
//	    // structural tier degraded or fell back to lexical extraction;
//	    // declarations are best-effort
//	}
//
// This keeps indexing usable on non-compiling, work-in-progress trees.
// The only hard failures are an unregistered extension and content the
// decode probe rejects as binary.
//
// # Adding a Language
//
// A language is a Strategy (Language, Extensions, Parse) registered on
// the Parser; lexical-only languages are a rule table in lexical.go.
// Nothing else in the engine changes.
package parser
