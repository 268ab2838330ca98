package docstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks paperchat/internal/docstore Store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist in the store.
var ErrNotFound = errors.New("document not found")

// Document identifies a paper note held by a Store.
type Document struct {
	Path string // Store-relative path (forward slashes), unique key
	Name string // Display name, filename without extension
}

// Store is the boundary to wherever paper notes live. The indexer and
// retriever only ever read through it; writing notes is someone else's job.
type Store interface {
	// Read returns the full text content of the document at path.
	Read(ctx context.Context, path string) (string, error)
	// ModifiedTime returns the last modification time of the document at path.
	ModifiedTime(ctx context.Context, path string) (time.Time, error)
	// List returns all documents, optionally restricted to those under the
	// given folder prefix. An empty scopeHint lists everything.
	List(ctx context.Context, scopeHint string) ([]Document, error)
	// Exists reports whether a document is present at path.
	Exists(ctx context.Context, path string) bool
}
