package storage

import (
	"context"
	"time"

	"github.com/fossouo/creche-pilou-chatbot/core"
)

// UnitRepository stores per-source knowledge units keyed by content
// fingerprint. It is the explicit keyed store behind the builder's
// incrementality: the presence of a fingerprint is the "already processed"
// signal. Implementations must be thread-safe.
type UnitRepository interface {
	// PutUnit stores a unit under its fingerprint, replacing any unit
	// already stored under that key. The unit must pass core.ValidateUnit.
	PutUnit(ctx context.Context, unit *core.KnowledgeBaseUnit) error

	// GetUnit retrieves the unit stored under the given fingerprint.
	// Returns ErrNotFound if no such unit exists.
	GetUnit(ctx context.Context, fingerprint core.Fingerprint) (*core.KnowledgeBaseUnit, error)

	// HasUnit reports whether a unit exists for the given fingerprint.
	HasUnit(ctx context.Context, fingerprint core.Fingerprint) (bool, error)

	// ListUnits returns every stored unit, ordered by fingerprint so the
	// merge step is deterministic across runs.
	ListUnits(ctx context.Context) ([]*core.KnowledgeBaseUnit, error)

	// ListFingerprints returns the fingerprints of every stored unit,
	// ordered lexicographically.
	ListFingerprints(ctx context.Context) ([]core.Fingerprint, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// SourceRecord tracks which source filenames were last processed and when.
type SourceRecord struct {
	Sources     []string  `json:"sources"`
	LastUpdated time.Time `json:"last_updated"`
}

// SourceLog persists the configuration record of processed sources.
type SourceLog interface {
	// RecordProcessed replaces the record of processed source filenames.
	RecordProcessed(ctx context.Context, sources []string, at time.Time) error

	// LastProcessed returns the current record.
	// Returns ErrNotFound if no build has run yet.
	LastProcessed(ctx context.Context) (*SourceRecord, error)
}

// KnowledgeBaseStore persists the merged, served knowledge base. The stored
// shape has two top-level fields, documents and model, and is loaded once at
// service start.
type KnowledgeBaseStore interface {
	// Save writes the knowledge base to the served location, replacing any
	// previous version atomically.
	Save(ctx context.Context, kb *core.KnowledgeBase) error

	// Load reads and validates the served knowledge base.
	// Returns ErrNotFound if none has been saved yet.
	Load(ctx context.Context) (*core.KnowledgeBase, error)
}
