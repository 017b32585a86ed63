// Copyright 2025 Fossouo Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//   - ChunkID must not be negative
//   - Text must not be empty after trimming
//   - ContentHash must be set
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySource)
	}

	if chunk.ChunkID < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkID)
	}

	if strings.TrimSpace(chunk.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.ContentHash == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyFingerprint)
	}

	return nil
}

// ValidateUnit validates a KnowledgeBaseUnit according to domain rules.
//
// Validation rules:
//   - Fingerprint and Source must be set
//   - Every chunk must pass ValidateChunk and carry the unit's fingerprint
//   - ChunkIDs must be 0-based, sequential and order-preserving
//   - If the unit declares a model, all embedded vectors must share one
//     dimensionality
func ValidateUnit(unit *KnowledgeBaseUnit) error {
	if unit == nil {
		return fmt.Errorf("%w: unit is nil", ErrInvalidUnit)
	}

	if unit.Fingerprint == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrEmptyFingerprint)
	}

	if unit.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrEmptySource)
	}

	dim := 0
	for i := range unit.Chunks {
		chunk := &unit.Chunks[i]
		if err := ValidateChunk(&chunk.Chunk); err != nil {
			return fmt.Errorf("%w: chunk %d: %w", ErrInvalidUnit, i, err)
		}
		if chunk.ContentHash != unit.Fingerprint {
			return fmt.Errorf("%w: chunk %d carries foreign fingerprint %q", ErrInvalidUnit, i, chunk.ContentHash)
		}
		if chunk.ChunkID != i {
			return fmt.Errorf("%w: chunk %d has out-of-order id %d", ErrInvalidUnit, i, chunk.ChunkID)
		}
		if chunk.Embedded() {
			if dim == 0 {
				dim = len(chunk.Vector)
			} else if len(chunk.Vector) != dim {
				return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
					ErrDimensionMismatch, i, len(chunk.Vector), dim)
			}
		}
	}

	if dim > 0 && unit.Model == "" {
		return fmt.Errorf("%w: embedded chunks without a model identity", ErrInvalidUnit)
	}

	return nil
}

// NewKnowledgeBase constructs a KnowledgeBase from embedded chunks, enforcing
// the invariants that all vectors share one model identity and one
// dimensionality and that every (source, chunk id) pair is unique.
//
// The model parameter names the identity the vectors were produced under; it
// may be empty only when no chunk carries a vector.
func NewKnowledgeBase(documents []EmbeddedChunk, model string) (*KnowledgeBase, error) {
	seen := make(map[string]struct{}, len(documents))
	dim := 0

	for i := range documents {
		doc := &documents[i]
		if err := ValidateChunk(&doc.Chunk); err != nil {
			return nil, err
		}

		key := fmt.Sprintf("%s\x00%d", doc.Source, doc.ChunkID)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s#%d", ErrDuplicateChunk, doc.Source, doc.ChunkID)
		}
		seen[key] = struct{}{}

		if !doc.Embedded() {
			continue
		}
		if model == "" {
			return nil, fmt.Errorf("%w: embedded chunk %s#%d without a model identity",
				ErrModelMismatch, doc.Source, doc.ChunkID)
		}
		if dim == 0 {
			dim = len(doc.Vector)
		} else if len(doc.Vector) != dim {
			return nil, fmt.Errorf("%w: chunk %s#%d has %d dimensions, expected %d",
				ErrDimensionMismatch, doc.Source, doc.ChunkID, len(doc.Vector), dim)
		}
	}

	return &KnowledgeBase{Documents: documents, Model: model}, nil
}
