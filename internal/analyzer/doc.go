// Package analyzer computes lightweight source metrics on top of parsed
// units and the symbol index: per-file line and complexity profiles,
// project-level import reports, and code-oriented pattern scans.
//
// # File Metrics
//
//	metrics := a.AnalyzeFile("python", text, parsed)
//
//	fmt.Printf("%d lines (%d code, %d comment, %d blank)\n",
//	    metrics.LinesTotal, metrics.LinesCode,
//	    metrics.LinesComment, metrics.LinesBlank)
//	for _, fn := range metrics.Functions {
//	    fmt.Printf("  %s (line %d, complexity %d)\n", fn.Name, fn.Line, fn.Complexity)
//	}
//
// Line classes: blank (whitespace only), comment (line starts with the
// language's line-comment marker), code (everything else). Complexity is
// a branching/loop keyword count from a per-language table. It is a proxy
// for how much decision logic a file carries, not certified cyclomatic
// complexity: keywords inside strings or trailing comments still count,
// and nested functions contribute to their enclosing span.
//
// Per-function complexity is 1 plus the tokens inside the function's line
// span. Declarations extracted by the lexical fallback carry no span and
// report complexity 1.
//
// # Import Reports
//
//	report := a.AnalyzeImports(sess.Index(), "internal")
//
//	for _, f := range report.Files {
//	    fmt.Printf("%s imports %d modules\n", f.File, len(f.Imports))
//	}
//	fmt.Println(report.Dependencies)
//
// The report groups the index's ImportRecords by importing file within
// the scope and derives a sorted, de-duplicated dependency list.
//
// # Code Patterns
//
// FindCodePatterns is the pattern engine specialized for structural
// queries: always regex, case-sensitive, and restricted to code files
// unless the caller supplies an explicit glob.
//
//	resp, err := a.FindCodePatterns(ctx, root, files, `def \w+_handler`, "", "", 50)
package analyzer
