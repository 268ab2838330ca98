package index

// Kind classifies a chunk's role for ranking and prompt priority.
type Kind string

const (
	// KindMetadata is the per-document bibliographic metadata block.
	KindMetadata Kind = "metadata"
	// KindLead is the opening slice of the document's cleaned text.
	KindLead Kind = "lead"
	// KindSection is a body chunk extracted under a recognized heading.
	KindSection Kind = "section"
	// KindBody is a body chunk without a section heading.
	KindBody Kind = "body"
)

// Reserved position indices for the non-body chunks. Body chunks are numbered
// from 0 in document order.
const (
	PositionMetadata = -2
	PositionLead     = -1
)

// Chunk is the atomic retrievable unit: a bounded span of one document's text
// together with its embedding. Timestamps are Unix milliseconds.
type Chunk struct {
	ID               string    `json:"id"`
	DocumentPath     string    `json:"documentPath"`
	DocumentName     string    `json:"documentName"`
	PositionIndex    int       `json:"positionIndex"`
	Kind             Kind      `json:"chunkKind"`
	SectionLabel     string    `json:"sectionLabel,omitempty"`
	SourceModifiedAt int64     `json:"sourceModifiedAt"`
	Text             string    `json:"text"`
	Embedding        []float32 `json:"embedding"`
	ContentHash      string    `json:"contentHash"`
	IndexedAt        int64     `json:"indexedAt"`
}

// SchemaVersion identifies the persisted index layout.
const SchemaVersion = 1

// File is the top-level persisted index structure.
type File struct {
	SchemaVersion    int     `json:"schemaVersion"`
	EmbeddingModelID string  `json:"embeddingModelId"`
	Chunks           []Chunk `json:"chunks"`
}
