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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidUnit indicates a KnowledgeBaseUnit failed validation.
	ErrInvalidUnit = errors.New("invalid knowledge base unit")

	// ErrEmptyText indicates the chunk Text field is empty after trimming.
	ErrEmptyText = errors.New("chunk text cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrNegativeChunkID indicates a ChunkID below zero.
	ErrNegativeChunkID = errors.New("chunk id cannot be negative")

	// ErrEmptyFingerprint indicates the ContentHash field is empty.
	ErrEmptyFingerprint = errors.New("content fingerprint cannot be empty")

	// ErrDuplicateChunk indicates a (source, chunk id) pair appears twice.
	ErrDuplicateChunk = errors.New("duplicate (source, chunk id) pair")

	// ErrModelMismatch indicates vectors from different embedding model
	// identities were mixed without re-embedding.
	ErrModelMismatch = errors.New("embedding model identity mismatch")

	// ErrDimensionMismatch indicates embedding vectors of different
	// dimensionality within one knowledge base.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
