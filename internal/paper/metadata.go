package paper

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the typed record produced by the metadata-extraction side of the
// import workflow and stored as YAML frontmatter in each paper note. Unknown
// frontmatter keys are preserved in Extra for forward compatibility.
type Metadata struct {
	Title      string         `yaml:"title"`
	Authors    []string       `yaml:"authors"`
	Conference string         `yaml:"conference"`
	Journal    string         `yaml:"journal"`
	Keywords   []string       `yaml:"keywords"`
	Year       int            `yaml:"year"`
	Extra      map[string]any `yaml:",inline"`
}

// Venue returns the publication venue: the conference if set, else the journal.
func (m Metadata) Venue() string {
	if m.Conference != "" {
		return m.Conference
	}
	return m.Journal
}

// IsZero reports whether no bibliographic field is populated.
func (m Metadata) IsZero() bool {
	return m.Title == "" && len(m.Authors) == 0 && m.Venue() == "" &&
		len(m.Keywords) == 0 && m.Year == 0
}

// Block renders the fixed-layout metadata text used for the metadata chunk.
// Empty fields are omitted; if no field is populated the result is empty, and
// the caller skips the metadata chunk entirely.
func (m Metadata) Block(documentName string) string {
	var lines []string
	if m.Title != "" {
		lines = append(lines, "Title: "+m.Title)
	}
	if len(m.Authors) > 0 {
		lines = append(lines, "Authors: "+strings.Join(m.Authors, ", "))
	}
	if v := m.Venue(); v != "" {
		lines = append(lines, "Venue: "+v)
	}
	if len(m.Keywords) > 0 {
		lines = append(lines, "Keywords: "+strings.Join(m.Keywords, ", "))
	}
	if m.Year != 0 {
		lines = append(lines, fmt.Sprintf("Year: %d", m.Year))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Paper: " + documentName + "\n" + strings.Join(lines, "\n")
}

const frontmatterDelimiter = "---"

// ParseNote splits a note into its frontmatter metadata and body text.
// Notes without frontmatter (or with unparsable frontmatter) yield an empty
// Metadata and the full content as body; a broken header never fails a note.
func ParseNote(content string) (Metadata, string) {
	var meta Metadata

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return meta, content
	}

	rest := normalized[len(frontmatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end < 0 {
		return meta, content
	}

	header := rest[:end]
	body := rest[end+len(frontmatterDelimiter)+1:]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return Metadata{}, content
	}
	return meta, body
}

// wikiLinkPattern matches [[target]] and [[target|alias]] markup.
var wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]|]*)(?:\|([^\[\]]*))?\]\]`)

// StripWikiLinks replaces wiki-link bracket markup with its display text:
// [[target|alias]] becomes alias, [[target]] becomes target.
func StripWikiLinks(text string) string {
	return wikiLinkPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := wikiLinkPattern.FindStringSubmatch(match)
		if groups[2] != "" {
			return groups[2]
		}
		return groups[1]
	})
}
