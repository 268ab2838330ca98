package segment

import "strings"

// Section is a run of chunks extracted under one heading. The label is empty
// for text appearing before the first recognized heading.
type Section struct {
	Label  string
	Chunks []string
}

// BySections splits cleaned document text into heading-aware sections and
// packs each section's paragraphs into chunks of at most chunkSize characters.
// Each chunk after the first within a section is prefixed with the trailing
// overlap characters of its predecessor; pieces produced by hard-splitting an
// oversized paragraph are exempt from overlap.
//
// A heading is only recognized at a paragraph boundary, which keeps short
// lines inside a paragraph from being misread as headings. Empty or
// whitespace-only input yields no sections.
func BySections(text string, chunkSize, overlap int, classifier Classifier) []Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if classifier == nil {
		classifier = NewAcademicClassifier()
	}

	var sections []Section
	current := Section{}
	var paragraphs []string
	var paraBuf []string

	flushParagraph := func() {
		if len(paraBuf) == 0 {
			return
		}
		paragraphs = append(paragraphs, strings.Join(paraBuf, "\n"))
		paraBuf = nil
	}
	flushSection := func() {
		flushParagraph()
		current.Chunks = packParagraphs(paragraphs, chunkSize, overlap)
		if len(current.Chunks) > 0 {
			sections = append(sections, current)
		}
		paragraphs = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flushParagraph()
			continue
		}

		if len(paraBuf) == 0 {
			if label, ok := classifier.Classify(trimmed); ok {
				flushSection()
				current = Section{Label: label}
				continue
			}
		}

		paraBuf = append(paraBuf, trimmed)
	}
	flushSection()

	return sections
}

// packParagraphs accumulates paragraphs into chunks of at most chunkSize
// runes, then applies the rolling overlap prefix.
func packParagraphs(paragraphs []string, chunkSize, overlap int) []string {
	var chunks []string
	var hardSplit []bool
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, buf.String())
		hardSplit = append(hardSplit, false)
		buf.Reset()
	}

	for _, para := range paragraphs {
		paraRunes := []rune(para)

		if len(paraRunes) > chunkSize {
			// Oversized paragraph: flush what we have and hard-split it.
			flush()
			for start := 0; start < len(paraRunes); start += chunkSize {
				end := start + chunkSize
				if end > len(paraRunes) {
					end = len(paraRunes)
				}
				chunks = append(chunks, string(paraRunes[start:end]))
				hardSplit = append(hardSplit, true)
			}
			continue
		}

		if buf.Len() > 0 && len([]rune(buf.String()))+2+len(paraRunes) > chunkSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)
	}
	flush()

	if overlap <= 0 {
		return chunks
	}

	// Rolling overlap uses each chunk's original text, so prefixes never
	// compound across chunks.
	originals := make([]string, len(chunks))
	copy(originals, chunks)
	for i := 1; i < len(chunks); i++ {
		if hardSplit[i] {
			continue
		}
		prev := []rune(originals[i-1])
		start := len(prev) - overlap
		if start < 0 {
			start = 0
		}
		chunks[i] = string(prev[start:]) + chunks[i]
	}

	return chunks
}

// Windows is the flat fallback chunker: a fixed sliding window with no
// section or paragraph awareness. It is used whenever section-aware
// segmentation yields nothing.
func Windows(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			chunks = append(chunks, window)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
