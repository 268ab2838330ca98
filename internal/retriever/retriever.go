package retriever

import (
	"context"
	"fmt"
	"sort"

	"paperchat/internal/contextutil"
	"paperchat/internal/docstore"
	"paperchat/internal/index"
)

// DefaultLambda is the MMR relevance/diversity trade-off.
const DefaultLambda = 0.8

// Retriever answers "which chunks matter for this query" over a scope of
// documents. It lazily re-indexes stale scope members, ranks all in-scope
// chunks by cosine similarity, diversifies the top picks with MMR, pulls in
// file-adjacent neighbors for continuity, and guarantees each scoped
// document's metadata chunk is present.
type Retriever struct {
	store    *index.Store
	indexer  *index.Indexer
	docs     docstore.Store
	embedder index.Embedder
	topK     int
	lambda   float64
}

// New creates a retriever over the given store and indexer.
func New(store *index.Store, indexer *index.Indexer, docs docstore.Store, embedder index.Embedder, topK int) *Retriever {
	return &Retriever{
		store:    store,
		indexer:  indexer,
		docs:     docs,
		embedder: embedder,
		topK:     topK,
		lambda:   DefaultLambda,
	}
}

// Retrieve returns the chunks to feed the prompt assembler, ordered for
// reading: grouped by document and position, with scoped metadata chunks at
// the front. The result never contains duplicate chunk ids and may exceed
// topK because of neighbor expansion and the metadata guarantee. It is empty
// only when nothing is indexed for any in-scope document.
func (r *Retriever) Retrieve(ctx context.Context, query string, scope []string) ([]index.Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	paths := dedupePaths(scope)

	// Re-index any scope member whose file is newer than its chunks. A
	// failure here is logged and retrieval proceeds with whatever is indexed.
	for _, path := range paths {
		stale, err := r.indexer.NeedsReindex(ctx, path)
		if err != nil {
			logger.WarnContext(ctx, "staleness check failed", "path", path, "error", err)
			continue
		}
		if !stale {
			continue
		}
		doc := docstore.Document{Path: path, Name: docstore.DisplayName(path)}
		if err := r.indexer.IndexDocument(ctx, doc); err != nil {
			logger.WarnContext(ctx, "failed to re-index stale document", "path", path, "error", err)
		}
	}

	inScope := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		inScope[p] = struct{}{}
	}

	var candidates []index.Chunk
	for _, c := range r.store.Chunks() {
		if _, ok := inScope[c.DocumentPath]; ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	vectors, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	queryVector := vectors[0]

	scored := make([]scoredChunk, len(candidates))
	for i, c := range candidates {
		scored[i] = scoredChunk{chunk: c, score: Cosine(queryVector, c.Embedding)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	selected := mmrSelect(scored, r.topK, r.lambda)

	// Neighbor expansion works over the full in-scope candidate set, so a
	// selected chunk's file-adjacent predecessor and successor come along
	// even when they never ranked.
	byPath := make(map[string][]index.Chunk)
	for _, c := range candidates {
		byPath[c.DocumentPath] = append(byPath[c.DocumentPath], c)
	}
	groupIndex := make(map[string]int, len(candidates))
	for _, group := range byPath {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PositionIndex < group[j].PositionIndex
		})
		for i, c := range group {
			groupIndex[c.ID] = i
		}
	}

	included := make(map[string]struct{})
	var expanded []index.Chunk
	appendChunk := func(c index.Chunk) {
		if _, ok := included[c.ID]; ok {
			return
		}
		included[c.ID] = struct{}{}
		expanded = append(expanded, c)
	}
	for _, s := range selected {
		group := byPath[s.chunk.DocumentPath]
		i := groupIndex[s.chunk.ID]
		appendChunk(s.chunk)
		if i > 0 {
			appendChunk(group[i-1])
		}
		if i+1 < len(group) {
			appendChunk(group[i+1])
		}
	}

	sort.SliceStable(expanded, func(i, j int) bool {
		if expanded[i].DocumentPath != expanded[j].DocumentPath {
			return expanded[i].DocumentPath < expanded[j].DocumentPath
		}
		return expanded[i].PositionIndex < expanded[j].PositionIndex
	})

	// Metadata guarantee: every scoped document's metadata chunk rides along,
	// prepended without re-sorting. Walking the scope in reverse keeps the
	// prepended chunks in scope order.
	for i := len(paths) - 1; i >= 0; i-- {
		for _, c := range byPath[paths[i]] {
			if c.Kind != index.KindMetadata {
				continue
			}
			if _, ok := included[c.ID]; !ok {
				included[c.ID] = struct{}{}
				expanded = append([]index.Chunk{c}, expanded...)
			}
			break
		}
	}

	logger.DebugContext(ctx, "retrieval completed",
		"candidates", len(candidates), "selected", len(selected), "returned", len(expanded))
	return expanded, nil
}

// dedupePaths removes duplicate scope entries while preserving order.
func dedupePaths(scope []string) []string {
	seen := make(map[string]struct{}, len(scope))
	var paths []string
	for _, p := range scope {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}
