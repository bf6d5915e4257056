package types

import "errors"

// DeclKind represents the syntactic category of a declaration
type DeclKind string

const (
	KindClass    DeclKind = "class"
	KindFunction DeclKind = "function"
	KindMethod   DeclKind = "method"
	KindImport   DeclKind = "import"
)

// ParseDeclKind converts a caller-supplied kind string into a DeclKind.
// An empty string is valid and means "all kinds".
func ParseDeclKind(s string) (DeclKind, error) {
	switch DeclKind(s) {
	case "", KindClass, KindFunction, KindMethod, KindImport:
		return DeclKind(s), nil
	default:
		return "", errors.New("invalid declaration kind: " + s)
	}
}

// Declaration represents one symbol declaration site extracted from a
// source file. Declarations are immutable once created; an index rebuild
// replaces entries rather than mutating them.
type Declaration struct {
	// Identification
	Name string
	Kind DeclKind

	// Location. Line is 1-indexed and points at the line the construct's
	// keyword/name appears on. EndLine is 0 when the parser cannot
	// determine the construct's span (lexical tier).
	File    string // Relative to project root, slash-separated
	Line    int
	Column  int
	EndLine int

	// Content
	Signature string // Declaring line or signature text, if available
	Enclosing string // Enclosing class or receiver type for methods
	Language  string
}

// ValidateKind checks if the declaration kind is valid
func (d *Declaration) ValidateKind() error {
	switch d.Kind {
	case KindClass, KindFunction, KindMethod, KindImport:
		return nil
	default:
		return errors.New("invalid declaration kind")
	}
}

// Validate performs comprehensive validation of the declaration
func (d *Declaration) Validate() error {
	if d.Name == "" {
		return errors.New("declaration name is required")
	}

	if err := d.ValidateKind(); err != nil {
		return err
	}

	if d.File == "" {
		return errors.New("declaration file is required")
	}

	if d.Line <= 0 {
		return errors.New("invalid position: line numbers must be positive")
	}

	if d.EndLine != 0 && d.EndLine < d.Line {
		return errors.New("invalid position: end line must not precede start line")
	}

	if d.Kind == KindMethod && d.Enclosing == "" {
		return errors.New("methods must have an enclosing scope")
	}

	return nil
}
