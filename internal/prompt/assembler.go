package prompt

import (
	"fmt"
	"strings"

	"paperchat/internal/index"
)

// Character budgets for the assembled context. Metadata-style questions get a
// tight budget since the answer lives in the metadata block; everything else
// gets room for body text.
const (
	MetadataBudget = 4000
	DefaultBudget  = 12000

	// minHeaderRoom is the remaining-budget floor below which no further
	// chunk header is accepted.
	minHeaderRoom = 200
)

const truncationMarker = "…"

// metadataKeywords is the fixed, best-effort keyword list classifying a query
// as bibliographic ("who wrote X", "what venue"). Coverage is inherently
// incomplete; misses just mean the larger budget is used.
var metadataKeywords = []string{
	"author", "title", "who wrote", "written by", "venue",
	"conference", "journal", "published", "publication", "year", "keyword",
}

// IsMetadataQuery reports whether the query asks about bibliographic facts.
func IsMetadataQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range metadataKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// Build packs retrieved chunks into a bounded prompt for the completion
// model. Metadata chunks are moved to the front (stable otherwise); chunks
// are accepted until the budget runs out, with the last chunk truncated when
// it alone would overflow. Deterministic given its inputs.
func Build(query string, chunks []index.Chunk) string {
	budget := DefaultBudget
	if IsMetadataQuery(query) {
		budget = MetadataBudget
	}

	ordered := make([]index.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Kind == index.KindMetadata {
			ordered = append(ordered, c)
		}
	}
	for _, c := range chunks {
		if c.Kind != index.KindMetadata {
			ordered = append(ordered, c)
		}
	}

	var context strings.Builder
	remaining := budget
	for _, c := range ordered {
		header := headerFor(c)
		if remaining-len(header) <= minHeaderRoom {
			break
		}
		remaining -= len(header)
		context.WriteString(header)

		text := c.Text
		if len(text) > remaining {
			context.WriteString(text[:remaining])
			context.WriteString(truncationMarker)
			context.WriteString("\n")
			break
		}
		remaining -= len(text)
		context.WriteString(text)
		context.WriteString("\n\n")
	}

	var b strings.Builder
	b.WriteString("You are answering a question about the user's research papers. ")
	b.WriteString("Use only the context below. The metadata blocks are authoritative ")
	b.WriteString("for bibliographic facts such as title, authors, venue, and year; ")
	b.WriteString("prefer them over anything stated in body text. If the context does ")
	b.WriteString("not contain the answer, say so.\n\n")
	b.WriteString("--- Context ---\n")
	b.WriteString(context.String())
	b.WriteString("--- End Context ---\n\n")
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\nAnswer:")
	return b.String()
}

// headerFor builds the tag line introducing one chunk in the context block.
func headerFor(c index.Chunk) string {
	switch c.Kind {
	case index.KindMetadata:
		return fmt.Sprintf("[Metadata | %s]\n", c.DocumentName)
	case index.KindLead:
		return fmt.Sprintf("[Lead | %s]\n", c.DocumentName)
	case index.KindSection:
		return fmt.Sprintf("[Section: %s | %s]\n", c.SectionLabel, c.DocumentName)
	default:
		return fmt.Sprintf("[Body | %s]\n", c.DocumentName)
	}
}
