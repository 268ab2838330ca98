package index

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks paperchat/internal/index Embedder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"paperchat/internal/contextutil"
	"paperchat/internal/docstore"
	"paperchat/internal/paper"
	"paperchat/internal/segment"
)

// Embedder converts text into fixed-length vectors. Texts are embedded as one
// ordered batch; the returned slice is index-aligned with the input.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LeadSize is the number of characters of cleaned text captured by the lead chunk.
const LeadSize = 6000

// Indexer (re)builds the chunk set for one document at a time: parse, clean,
// segment, fingerprint, embed, then replace the document's chunks in the
// store and persist. It is the sole mutator of the Store.
type Indexer struct {
	docs       docstore.Store
	store      *Store
	embedder   Embedder
	classifier segment.Classifier
	chunkSize  int
	overlap    int
	logger     *slog.Logger
}

// NewIndexer creates an incremental indexer over the given store.
func NewIndexer(docs docstore.Store, store *Store, embedder Embedder, chunkSize, overlap int) *Indexer {
	return &Indexer{
		docs:       docs,
		store:      store,
		embedder:   embedder,
		classifier: segment.NewAcademicClassifier(),
		chunkSize:  chunkSize,
		overlap:    overlap,
		logger:     slog.Default(),
	}
}

// NeedsReindex reports whether the document has no indexed chunks or has been
// modified since its chunks were computed.
func (ix *Indexer) NeedsReindex(ctx context.Context, path string) (bool, error) {
	modTime, err := ix.docs.ModifiedTime(ctx, path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if len(ix.store.ChunksForPath(path)) == 0 {
		return true, nil
	}
	return modTime.UnixMilli() > ix.store.MaxSourceModifiedAt(path), nil
}

// IndexDocument rebuilds all chunks for one document and persists the index.
// It is idempotent for unchanged content: the same text yields the same
// hashes and ids. Chunks are embedded and appended strictly in the order
// metadata, lead, body[0..n], and the index is only persisted after the whole
// document is assembled.
func (ix *Indexer) IndexDocument(ctx context.Context, doc docstore.Document) error {
	logger := contextutil.LoggerFromContext(ctx)

	content, err := ix.docs.Read(ctx, doc.Path)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", doc.Path, err)
	}
	modTime, err := ix.docs.ModifiedTime(ctx, doc.Path)
	if err != nil {
		return fmt.Errorf("failed to stat document %s: %w", doc.Path, err)
	}

	meta, body := paper.ParseNote(content)
	cleaned := paper.CleanText(paper.ExtractFullText(body))

	sourceModifiedAt := modTime.UnixMilli()
	indexedAt := time.Now().UnixMilli()

	var chunks []Chunk
	add := func(kind Kind, position int, sectionLabel, text string) {
		hash := Fingerprint(kind, text)
		chunks = append(chunks, Chunk{
			ID:               ChunkID(doc.Path, PositionMarker(position), hash),
			DocumentPath:     doc.Path,
			DocumentName:     doc.Name,
			PositionIndex:    position,
			Kind:             kind,
			SectionLabel:     sectionLabel,
			SourceModifiedAt: sourceModifiedAt,
			Text:             text,
			ContentHash:      hash,
			IndexedAt:        indexedAt,
		})
	}

	// Metadata chunk, skipped entirely when no bibliographic field is set.
	if block := strings.TrimSpace(paper.StripWikiLinks(meta.Block(doc.Name))); block != "" {
		add(KindMetadata, PositionMetadata, "", block)
	}

	// Lead chunk: the opening slice of the cleaned text.
	if cleaned != "" {
		leadRunes := []rune(cleaned)
		if len(leadRunes) > LeadSize {
			leadRunes = leadRunes[:LeadSize]
		}
		add(KindLead, PositionLead, "", string(leadRunes))
	}

	// Body chunks in document order, numbered from 0.
	position := 0
	for _, section := range segment.BySections(cleaned, ix.chunkSize, ix.overlap, ix.classifier) {
		kind := KindSection
		if section.Label == "" {
			kind = KindBody
		}
		for _, text := range section.Chunks {
			add(kind, position, section.Label, text)
			position++
		}
	}
	if position == 0 && cleaned != "" {
		for _, text := range segment.Windows(cleaned, ix.chunkSize, ix.overlap) {
			add(KindBody, position, "Body", text)
			position++
		}
	}

	// Embed all chunk texts as one ordered batch.
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		embeddings, err := ix.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks for %s: %w", doc.Path, err)
		}
		if len(embeddings) != len(chunks) {
			return fmt.Errorf("embedding count mismatch for %s: expected %d, got %d", doc.Path, len(chunks), len(embeddings))
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
	}

	ix.store.ReplaceForPath(doc.Path, chunks)
	if err := ix.store.Save(); err != nil {
		return fmt.Errorf("failed to persist index after %s: %w", doc.Path, err)
	}

	logger.InfoContext(ctx, "indexed document", "path", doc.Path, "chunks", len(chunks))
	return nil
}

// IndexAll lists every document in the store and re-indexes the stale ones.
// Errors for individual documents are logged but don't stop the batch.
func (ix *Indexer) IndexAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := ix.docs.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	var indexed, skipped, failed int
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stale, err := ix.NeedsReindex(ctx, doc.Path)
		if err == nil && !stale {
			skipped++
			continue
		}
		if err := ix.IndexDocument(ctx, doc); err != nil {
			failed++
			logger.ErrorContext(ctx, "failed to index document", "path", doc.Path, "error", err)
			continue
		}
		indexed++
	}

	logger.InfoContext(ctx, "indexing completed",
		"total", len(docs), "indexed", indexed, "unchanged", skipped, "failed", failed)

	if failed > 0 {
		return fmt.Errorf("indexing completed with %d errors", failed)
	}
	return nil
}
