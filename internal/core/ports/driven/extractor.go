package driven

import "github.com/partikollen/partikollen/internal/core/domain"

// Extractor turns raw HTML or PDF bytes into normalised plain text.
// It never fails: malformed input yields an empty string and the caller
// decides whether to fall back to the other rendering.
type Extractor interface {
	Extract(raw []byte, kind domain.SourceKind) string
}
