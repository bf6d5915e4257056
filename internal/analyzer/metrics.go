package analyzer

import (
	"regexp"
	"strings"
)

// langProfile drives line classification and the branching-keyword count
// for one language family
type langProfile struct {
	lineComments []string       // full-line comment markers
	branchWords  *regexp.Regexp // identifier-like branching/loop keywords
	branchOps    []string       // operator tokens counted literally
}

func newProfile(markers []string, words []string, ops ...string) *langProfile {
	return &langProfile{
		lineComments: markers,
		branchWords:  regexp.MustCompile(`\b(?:` + strings.Join(words, "|") + `)\b`),
		branchOps:    ops,
	}
}

var (
	slash = []string{"//"}
	hash  = []string{"#"}

	// cFamily is the keyword set shared across the C-style languages
	cFamily = []string{"if", "for", "while", "switch", "case", "catch"}
)

var profiles = map[string]*langProfile{
	"python":     newProfile(hash, []string{"if", "elif", "for", "while", "except", "and", "or"}),
	"go":         newProfile(slash, []string{"if", "for", "switch", "case", "select"}, "&&", "||"),
	"javascript": newProfile(slash, cFamily, "&&", "||"),
	"typescript": newProfile(slash, cFamily, "&&", "||"),
	"java":       newProfile(slash, cFamily, "&&", "||"),
	"kotlin":     newProfile(slash, []string{"if", "for", "while", "when", "catch"}, "&&", "||"),
	"swift":      newProfile(slash, []string{"if", "for", "while", "switch", "case", "guard", "catch"}, "&&", "||"),
	"ruby":       newProfile(hash, []string{"if", "elsif", "unless", "while", "until", "for", "rescue", "when", "and", "or"}, "&&", "||"),
	"rust":       newProfile(slash, []string{"if", "for", "while", "loop", "match"}, "&&", "||"),
	"c":          newProfile(slash, cFamily, "&&", "||"),
	"cpp":        newProfile(slash, cFamily, "&&", "||"),
	"csharp":     newProfile(slash, cFamily, "&&", "||"),
	"php":        newProfile([]string{"//", "#"}, []string{"if", "elseif", "for", "foreach", "while", "switch", "case", "catch", "and", "or", "xor"}, "&&", "||"),
	"shell":      newProfile(hash, []string{"if", "elif", "for", "while", "until", "case"}, "&&", "||"),
}

// defaultProfile handles languages without a table entry and plain text
var defaultProfile = newProfile([]string{"#", "//"}, []string{"if", "for", "while"})

func profileFor(language string) *langProfile {
	if p, ok := profiles[language]; ok {
		return p
	}
	return defaultProfile
}

// isCommentLine reports whether an already-trimmed line is a full-line
// comment. Inline trailing comments are not detected; this is a line
// classifier, not a tokenizer.
func (p *langProfile) isCommentLine(trimmed string) bool {
	for _, marker := range p.lineComments {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// branchCount counts branching/loop tokens on one line
func (p *langProfile) branchCount(line string) int {
	n := len(p.branchWords.FindAllStringIndex(line, -1))
	for _, op := range p.branchOps {
		n += strings.Count(line, op)
	}
	return n
}

// complexityOf sums branch tokens over the given lines, skipping blank
// and full-line comment lines
func (p *langProfile) complexityOf(lines []string) int {
	total := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || p.isCommentLine(trimmed) {
			continue
		}
		total += p.branchCount(line)
	}
	return total
}

// classify buckets lines into code, blank, and comment counts
func (p *langProfile) classify(lines []string) (code, blank, comment int) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			blank++
		case p.isCommentLine(trimmed):
			comment++
		default:
			code++
		}
	}
	return code, blank, comment
}
