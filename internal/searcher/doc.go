// Package searcher implements text search over a project file inventory:
// literal and regex pattern scans plus whole-word reference resolution.
//
// Scans always read live file content rather than stored rows, so results
// reflect the tree as it is at query time. The trade-off is accepted
// staleness in the other direction: a file modified after the inventory
// was taken is scanned in its current form, and a file deleted mid-scan
// is skipped with a warning instead of failing the request.
//
// # Pattern Search
//
//	engine := searcher.NewEngine()
//
//	resp, err := engine.Search(ctx, root, files, "parseHeader", searcher.Options{
//	    CaseSensitive: true,
//	    WholeWord:     true,
//	    FileGlob:      "*.go,*.py",
//	    ContextLines:  2,
//	    MaxResults:    50,
//	})
//
//	for _, m := range resp.Matches {
//	    fmt.Printf("%s:%d:%d %s\n", m.File, m.Line, m.Column, m.Text)
//	}
//
// Options behavior:
//
//   - Regex: treat the query as a regular expression; otherwise it is a
//     literal substring (metacharacters quoted)
//
//   - WholeWord: wrap the pattern in word boundaries so "log" does not
//     match inside "login"
//
//   - CaseSensitive: off by default; matching is case-insensitive unless set
//
//   - FileGlob: comma-separated patterns; "*.py" matches base names,
//     "internal/*/*.go" matches relative paths
//
//   - Scope: limit the scan to one subtree of the project
//
//   - ContextLines: lines of surrounding text attached to each match,
//     capped at MaxContextLines
//
// A malformed regular expression reports types.ErrInvalidQuery. One match
// is emitted per matching line, and the scan stops across the whole tree
// once MaxResults matches are collected (Truncated is set on the response).
// Binary files are excluded by a decode probe; unreadable files become
// warnings on the response and the scan continues.
//
// # Reference Resolution
//
// FindReferences locates whole-word, case-sensitive occurrences of a
// symbol name and classifies each line against the symbol index:
//
//	resp, err := engine.FindReferences(ctx, root, files, "foo", index,
//	    searcher.ReferenceOptions{})
//
//	for _, m := range resp.Matches {
//	    fmt.Printf("%s:%d [%s] %s\n", m.File, m.Line, m.Kind, m.Text)
//	}
//
// A line carrying a known declaration of the name is classified
// declaration; every other occurrence is a reference. Classification is
// lexical, not semantic: shadowed names in different scopes look the
// same, and the scan prefers over-reporting to missing a use. Zero
// occurrences is a valid empty result.
package searcher
