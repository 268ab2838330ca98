package index

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Store owns the persisted chunk collection. It holds the single in-process
// copy of the index; the indexer mutates it through ReplaceForPath and the
// retriever reads it through Chunks/ChunksForPath. The on-disk file is
// rewritten wholesale after every mutation.
type Store struct {
	path   string
	file   File
	logger *slog.Logger
}

// Open loads the index file at path, creating an empty index when the file is
// absent or unparsable. A parse failure is recovered by discarding the old
// file; re-indexing repairs the lost chunks on next access.
func Open(path, embeddingModelID string) *Store {
	s := &Store{
		path: path,
		file: File{
			SchemaVersion:    SchemaVersion,
			EmbeddingModelID: embeddingModelID,
		},
		logger: slog.Default(),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read index file, starting empty", "path", path, "error", err)
		}
		return s
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		s.logger.Warn("index file is unparsable, starting empty", "path", path, "error", err)
		return s
	}

	// A schema or model mismatch is kept as-is: stale embeddings degrade
	// quality but never block retrieval, and lazy re-indexing repairs them.
	if file.SchemaVersion != SchemaVersion {
		s.logger.Warn("index schema version mismatch, keeping existing chunks",
			"found", file.SchemaVersion, "expected", SchemaVersion)
	}
	if file.EmbeddingModelID != embeddingModelID {
		s.logger.Warn("index was built with a different embedding model",
			"found", file.EmbeddingModelID, "configured", embeddingModelID)
	}

	s.file = file
	s.file.SchemaVersion = SchemaVersion
	s.file.EmbeddingModelID = embeddingModelID
	return s
}

// Chunks returns all chunks in the index, in insertion order.
func (s *Store) Chunks() []Chunk {
	return s.file.Chunks
}

// ChunksForPath returns all chunks belonging to the given document path.
func (s *Store) ChunksForPath(documentPath string) []Chunk {
	var chunks []Chunk
	for _, c := range s.file.Chunks {
		if c.DocumentPath == documentPath {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// MaxSourceModifiedAt returns the newest sourceModifiedAt among the document's
// indexed chunks, or 0 when none are indexed. This is the staleness signal.
func (s *Store) MaxSourceModifiedAt(documentPath string) int64 {
	var max int64
	for _, c := range s.file.Chunks {
		if c.DocumentPath == documentPath && c.SourceModifiedAt > max {
			max = c.SourceModifiedAt
		}
	}
	return max
}

// ReplaceForPath discards every chunk owned by the document path and inserts
// the new set. Chunks are never mutated in place; a document's chunk subset is
// always replaced wholesale.
func (s *Store) ReplaceForPath(documentPath string, chunks []Chunk) {
	kept := make([]Chunk, 0, len(s.file.Chunks)+len(chunks))
	for _, c := range s.file.Chunks {
		if c.DocumentPath != documentPath {
			kept = append(kept, c)
		}
	}
	s.file.Chunks = append(kept, chunks...)
}

// Save rewrites the index file wholesale.
func (s *Store) Save() error {
	raw, err := json.Marshal(s.file)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// Len returns the number of chunks currently indexed.
func (s *Store) Len() int {
	return len(s.file.Chunks)
}
