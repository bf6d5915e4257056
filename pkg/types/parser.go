package types

// ParseResult represents the output of parsing one source file
type ParseResult struct {
	// Extracted data
	Language     string
	Declarations []Declaration
	Imports      []ImportRecord

	// Non-fatal errors encountered during parsing. Syntax errors land
	// here; they never abort the parse, which degrades to partial or
	// lexical extraction instead.
	Errors []ParseError
}

// ImportRecord represents one import statement in a source file
type ImportRecord struct {
	File      string // Relative to project root
	Name      string // Imported module or symbol name
	Module    string // Module the name comes from; equals Name for plain imports
	Alias     string // Import alias if present
	Statement string // Import statement source text
	Line      int    // 1-indexed
}

// ParseError represents an error that occurred during parsing
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface
func (pe *ParseError) Error() string {
	return pe.Message
}

// HasErrors returns true if any parsing errors occurred
func (pr *ParseResult) HasErrors() bool {
	return len(pr.Errors) > 0
}

// AddError adds a parsing error to the result
func (pr *ParseResult) AddError(file string, line, col int, msg string) {
	pr.Errors = append(pr.Errors, ParseError{
		File:    file,
		Line:    line,
		Column:  col,
		Message: msg,
	})
}

// AddDeclaration appends a declaration to the result
func (pr *ParseResult) AddDeclaration(d Declaration) {
	pr.Declarations = append(pr.Declarations, d)
}

// AddImport appends an import record to the result
func (pr *ParseResult) AddImport(rec ImportRecord) {
	pr.Imports = append(pr.Imports, rec)
}
