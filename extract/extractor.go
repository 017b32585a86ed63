// Package extract defines the text-extraction boundary of the ingestion
// pipeline. Extraction is an external collaborator: implementations may fail
// per page without aborting the whole document, and a source whose extraction
// yields no usable text is skipped by the builder, never fatal to a batch.
package extract

import (
	"context"
	"errors"
)

// ErrNoText indicates that extraction produced no usable text for a source.
var ErrNoText = errors.New("no usable text extracted")

// TextExtractor extracts plain text from a source document on disk.
// Implementations must be safe for concurrent use.
type TextExtractor interface {
	// Extract returns the document's plain text. Partial results are
	// acceptable: an implementation may skip unreadable pages and return
	// the text it could recover. Returns ErrNoText (possibly wrapped) when
	// nothing usable could be extracted.
	Extract(ctx context.Context, path string) (string, error)
}
