package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Kind-specific hash prefixes keep a metadata chunk from colliding with a
// body chunk that happens to carry identical text.
func hashPrefix(kind Kind) string {
	switch kind {
	case KindMetadata:
		return "metadata:"
	case KindLead:
		return "lead:"
	default:
		return ""
	}
}

// Fingerprint computes the stable content hash for a chunk's text. The hash
// is what makes re-indexing idempotent: unchanged text always produces the
// same fingerprint, and therefore the same chunk id.
func Fingerprint(kind Kind, text string) string {
	sum := sha256.Sum256([]byte(hashPrefix(kind) + text))
	return hex.EncodeToString(sum[:])
}

// ChunkID derives a chunk's id from its document path, a position marker, and
// a prefix of the content hash. Ids stay stable across re-reads as long as
// the content is unchanged.
func ChunkID(documentPath, marker, contentHash string) string {
	return fmt.Sprintf("%s#%s#%s", documentPath, marker, contentHash[:8])
}

// PositionMarker renders the position component of a chunk id.
func PositionMarker(position int) string {
	switch position {
	case PositionMetadata:
		return "meta"
	case PositionLead:
		return "lead"
	default:
		return fmt.Sprintf("%d", position)
	}
}
