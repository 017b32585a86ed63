package core

import "time"

// Fingerprint is the hex-encoded content hash of a source file.
// All chunks produced from one file share the same fingerprint, and it is
// the sole key used to decide whether a source was already processed.
type Fingerprint string

// SourceMetadata carries informational attributes of the originating file.
// It is never used for ranking or deduplication.
type SourceMetadata struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"` // Unix seconds of the file's mtime
}

// Chunk is a contiguous slice of a source document's text, the unit of
// retrieval.
type Chunk struct {
	Source      string         `json:"source"`
	ChunkID     int            `json:"chunk_id"` // 0-based position within the source, order-significant
	Text        string         `json:"text"`
	ContentHash Fingerprint    `json:"content_hash"`
	Metadata    SourceMetadata `json:"metadata"`
}

// EmbeddedChunk is a Chunk plus the embedding vector produced by exactly one
// model identity. A nil Vector marks an unembedded chunk; such chunks are
// excluded from similarity ranking, not scored as zero.
type EmbeddedChunk struct {
	Chunk
	Vector []float32 `json:"embedding,omitempty"`
}

// Embedded reports whether the chunk carries an embedding vector.
func (c *EmbeddedChunk) Embedded() bool {
	return len(c.Vector) > 0
}

// KnowledgeBaseUnit is the embedded-chunk set produced from a single source
// document, keyed by that document's content fingerprint.
//
// Units are never mutated in place: a changed source produces a new unit
// under a new fingerprint and the old unit becomes an orphan.
type KnowledgeBaseUnit struct {
	Fingerprint Fingerprint     `json:"fingerprint"`
	Source      string          `json:"source"`
	Model       string          `json:"model,omitempty"` // empty if the unit's chunks are unembedded
	Chunks      []EmbeddedChunk `json:"chunks"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Embedded reports whether the unit was produced with an embedding model.
func (u *KnowledgeBaseUnit) Embedded() bool {
	return u.Model != ""
}

// KnowledgeBase is the merged union of EmbeddedChunks across all units plus
// the shared embedding model identity. It is the only structure the retrieval
// engine reads and is immutable for the lifetime of a serving process.
type KnowledgeBase struct {
	Documents []EmbeddedChunk `json:"documents"`
	Model     string          `json:"model,omitempty"`
}

// Empty reports whether the knowledge base holds no documents.
func (kb *KnowledgeBase) Empty() bool {
	return len(kb.Documents) == 0
}

// RankedChunk is a retrieval result: a chunk plus its cosine similarity
// score against the query. The raw embedding vector never leaves the engine.
type RankedChunk struct {
	Chunk Chunk
	Score float32
}
