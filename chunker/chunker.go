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


// Package chunker splits extracted document text into overlapping
// word-count windows, the unit of retrieval.
package chunker

import (
	"fmt"
	"strings"
)

// Default window parameters, tuned for regulatory prose.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

// WordChunker splits text into windows of chunkSize words advancing by
// chunkSize-overlap words per step. It is purely functional: the same input
// always produces the same chunks.
type WordChunker struct {
	chunkSize int
	overlap   int
}

// Option configures a WordChunker.
type Option func(*WordChunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(c *WordChunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the number of words shared between consecutive windows.
func WithOverlap(overlap int) Option {
	return func(c *WordChunker) {
		c.overlap = overlap
	}
}

// New creates a WordChunker with the default window parameters, applying the
// provided options.
//
// The overlap must satisfy 0 <= overlap < chunkSize. Anything else would make
// the window stride non-positive and the chunking loop would never terminate,
// so invalid parameters are rejected here rather than checked per call.
func New(opts ...Option) (*WordChunker, error) {
	c := &WordChunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize < 1 {
		return nil, fmt.Errorf("chunker: chunk size must be at least 1, got %d", c.chunkSize)
	}
	if c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("chunker: overlap must be in [0, %d), got %d", c.chunkSize, c.overlap)
	}

	return c, nil
}

// ChunkSize returns the configured window size in words.
func (c *WordChunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured window overlap in words.
func (c *WordChunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into overlapping word windows.
//
// The text is split on whitespace. If it holds at most chunkSize words the
// trimmed text is returned as a single chunk. Empty or whitespace-only input
// yields no chunks, which is not an error.
func (c *WordChunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if len(words) <= c.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	// ceil((N-overlap)/stride) windows; the last one ends exactly at the
	// final word, so no degenerate tail window is emitted.
	stride := c.chunkSize - c.overlap
	chunks := make([]string, 0, (len(words)-c.overlap+stride-1)/stride)
	for i := 0; ; i += stride {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}

	return chunks
}
