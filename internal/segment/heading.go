package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// Classifier decides whether a line of cleaned text opens a new section.
// It is an interface so the regex-driven heuristic below can be swapped for a
// smarter classifier without touching the segmentation control flow.
type Classifier interface {
	// Classify returns the section label and true when the line is a heading.
	Classify(line string) (string, bool)
}

// sectionVocabulary is the fixed set of academic section names recognized as
// headings regardless of formatting.
var sectionVocabulary = map[string]struct{}{
	"abstract":         {},
	"introduction":     {},
	"background":       {},
	"related work":     {},
	"method":           {},
	"methods":          {},
	"methodology":      {},
	"approach":         {},
	"experiments":      {},
	"results":          {},
	"discussion":       {},
	"conclusion":       {},
	"conclusions":      {},
	"references":       {},
	"bibliography":     {},
	"appendix":         {},
	"acknowledgements": {},
	"limitations":      {},
}

// numberedHeadingPattern matches numbered headings like "1 Introduction" or
// "2.3 Ablation Study": a section number followed by short title text.
var numberedHeadingPattern = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+\p{L}[^\n]{0,70}$`)

const maxAllCapsHeadingWords = 10

// AcademicClassifier recognizes the heading conventions of academic papers.
type AcademicClassifier struct{}

// NewAcademicClassifier returns the default heading classifier.
func NewAcademicClassifier() *AcademicClassifier {
	return &AcademicClassifier{}
}

// Classify recognizes three heading shapes: a known section name, a numbered
// heading, or a short all-caps line.
func (c *AcademicClassifier) Classify(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	if _, ok := sectionVocabulary[strings.ToLower(trimmed)]; ok {
		return trimmed, true
	}

	if numberedHeadingPattern.MatchString(trimmed) {
		return trimmed, true
	}

	if isShortAllCaps(trimmed) {
		return trimmed, true
	}

	return "", false
}

// isShortAllCaps reports whether the line is entirely upper case, contains at
// least one letter, and is at most maxAllCapsHeadingWords words long.
func isShortAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	if !hasLetter {
		return false
	}
	return len(strings.Fields(line)) <= maxAllCapsHeadingWords
}
