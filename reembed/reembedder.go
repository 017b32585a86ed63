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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fossouo/creche-pilou-chatbot/ai"
	"github.com/fossouo/creche-pilou-chatbot/core"
	"github.com/fossouo/creche-pilou-chatbot/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of chunk texts sent to the embedder per call
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder rewrites every stored knowledge unit with vectors produced by
// the configured provider's model. Units already carrying that model
// identity are skipped.
type Reembedder struct {
	repo     storage.UnitRepository
	embedder ai.Embedder
	model    string
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.UnitRepository, provider ai.AIProvider, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:     repo,
		embedder: provider.Embedder(),
		model:    provider.Model(),
		config:   config,
		progress: progress,
	}, nil
}

// Run executes the reembedding operation over every stored unit.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	units, err := r.repo.ListUnits(ctx)
	if err != nil {
		return fmt.Errorf("failed to list units: %w", err)
	}

	totalChunks := 0
	pending := make([]*core.KnowledgeBaseUnit, 0, len(units))
	for _, unit := range units {
		if unit.Model == r.model {
			continue
		}
		pending = append(pending, unit)
		totalChunks += len(unit.Chunks)
	}

	if len(pending) == 0 {
		fmt.Fprintf(r.progress, "All %d units already embedded with %s\n", len(units), r.model)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d units, %d chunks (model: %s, batch size: %d)\n",
		len(pending), totalChunks, r.model, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalChunks, r.config.ReportInterval)
	tracker.Start()

	for _, unit := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.reembedUnit(ctx, unit); err != nil {
			return fmt.Errorf("failed to reembed unit %s: %w", unit.Fingerprint, err)
		}
		tracker.Increment(len(unit.Chunks))
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		totalChunks, elapsed.Round(time.Second), float64(totalChunks)/elapsed.Seconds())

	return nil
}

// reembedUnit replaces every vector in the unit and stamps the new model
// identity. The unit is rewritten in one put, so a unit is never persisted
// half-migrated.
func (r *Reembedder) reembedUnit(ctx context.Context, unit *core.KnowledgeBaseUnit) error {
	for start := 0; start < len(unit.Chunks); start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > len(unit.Chunks) {
			end = len(unit.Chunks)
		}

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = unit.Chunks[i].Text
		}

		var vectors [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return err
		}

		if len(vectors) != len(texts) {
			return fmt.Errorf("embedding result mismatch. expected %d, received %d",
				len(texts), len(vectors))
		}

		for i := range vectors {
			unit.Chunks[start+i].Vector = vectors[i]
		}
	}

	unit.Model = r.model
	return r.repo.PutUnit(ctx, unit)
}
