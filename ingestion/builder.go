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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fossouo/creche-pilou-chatbot/ai"
	"github.com/fossouo/creche-pilou-chatbot/chunker"
	"github.com/fossouo/creche-pilou-chatbot/core"
	"github.com/fossouo/creche-pilou-chatbot/extract"
	"github.com/fossouo/creche-pilou-chatbot/storage"
)

// placeholderSource is the synthetic document served when no PDF source
// exists, so the knowledge base is never structurally empty on disk.
const (
	placeholderSource = "document_exemple.pdf"
	placeholderText   = "Ce document est un exemple. Aucun PDF n'a été trouvé dans le dossier des sources."
)

// Builder orchestrates the incremental knowledge-base build. Each source is
// fingerprinted, and content already persisted under that fingerprint is
// reused verbatim: no re-extraction, no re-chunking, no re-embedding.
type Builder struct {
	units     storage.UnitRepository
	sourceLog storage.SourceLog
	kbStore   storage.KnowledgeBaseStore
	provider  ai.AIProvider
	extractor extract.TextExtractor
	chunker   *chunker.WordChunker
	pool      *ants.Pool
	claims    *claimTable
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent source processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}

		if b.pool != nil {
			b.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		b.pool = pool
		return nil
	}
}

// WithChunker sets a custom word chunker.
// Default uses chunker.DefaultChunkSize and chunker.DefaultOverlap.
func WithChunker(c *chunker.WordChunker) Option {
	return func(b *Builder) error {
		if c == nil {
			return fmt.Errorf("chunker must not be nil")
		}
		b.chunker = c
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new knowledge-base builder.
func NewBuilder(
	units storage.UnitRepository,
	sourceLog storage.SourceLog,
	kbStore storage.KnowledgeBaseStore,
	provider ai.AIProvider,
	extractor extract.TextExtractor,
	opts ...Option,
) (*Builder, error) {
	if units == nil {
		return nil, ErrUnitRepositoryRequired
	}
	if sourceLog == nil {
		return nil, ErrSourceLogRequired
	}
	if kbStore == nil {
		return nil, ErrKnowledgeBaseStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	defaultChunker, err := chunker.New()
	if err != nil {
		pool.Release()
		return nil, err
	}

	b := &Builder{
		units:     units,
		sourceLog: sourceLog,
		kbStore:   kbStore,
		provider:  provider,
		extractor: extractor,
		chunker:   defaultChunker,
		pool:      pool,
		claims:    newClaimTable(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// BuildStats summarizes one build pass.
type BuildStats struct {
	Embedded int // sources extracted, chunked and embedded this pass
	Reused   int // sources whose fingerprint already had a stored unit
	Skipped  int // sources skipped after an extraction or validation failure
}

// BuildDirectory processes every PDF in dir and merges all stored units into
// the served knowledge base. Per-source failures are logged and skipped; the
// build fails only when scanning, merging or persisting the result fails.
func (b *Builder) BuildDirectory(ctx context.Context, dir string) (*BuildStats, error) {
	sources, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(sources)

	if len(sources) == 0 {
		b.logger.Warn("no PDF sources found", "dir", dir)
	}

	stats, err := b.ProcessSources(ctx, sources)
	if err != nil {
		return stats, err
	}

	if err := b.Merge(ctx); err != nil {
		return stats, err
	}

	return stats, nil
}

// ProcessSources fingerprints, extracts, chunks and embeds the given source
// files concurrently, persisting one unit per distinct fingerprint. Sources
// that fail are logged and counted as skipped; the batch always continues.
func (b *Builder) ProcessSources(ctx context.Context, paths []string) (*BuildStats, error) {
	stats := &BuildStats{}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, path := range paths {
		wg.Add(1)
		source := path
		submitErr := b.pool.Submit(func() {
			defer wg.Done()

			outcome, err := b.processSource(ctx, source)
			if err != nil {
				b.logger.Error("error processing source", "source", source, "err", err)
				outcome = sourceSkipped
			}

			mu.Lock()
			switch outcome {
			case sourceEmbedded:
				stats.Embedded++
			case sourceReused:
				stats.Reused++
			case sourceSkipped:
				stats.Skipped++
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return stats, submitErr
		}
	}

	wg.Wait()

	b.logger.Info("source processing completed",
		"embedded", stats.Embedded, "reused", stats.Reused, "skipped", stats.Skipped)
	return stats, nil
}

type sourceOutcome int

const (
	sourceSkipped sourceOutcome = iota
	sourceEmbedded
	sourceReused
)

func (b *Builder) processSource(ctx context.Context, path string) (sourceOutcome, error) {
	fingerprint, err := core.FingerprintFile(path)
	if err != nil {
		return sourceSkipped, fmt.Errorf("fingerprinting: %w", err)
	}

	// Hold the fingerprint for the whole check-then-build sequence, so two
	// sources with identical bytes are embedded once.
	release := b.claims.acquire(fingerprint)
	defer release()

	exists, err := b.units.HasUnit(ctx, fingerprint)
	if err != nil {
		return sourceSkipped, err
	}
	if exists {
		b.logger.Debug("source unchanged, reusing stored unit",
			"source", filepath.Base(path), "fingerprint", fingerprint)
		return sourceReused, nil
	}

	unit, err := b.buildUnit(ctx, path, fingerprint)
	if err != nil {
		return sourceSkipped, err
	}

	if err := b.units.PutUnit(ctx, unit); err != nil {
		return sourceSkipped, err
	}

	b.logger.Info("source processed",
		"source", unit.Source, "chunks", len(unit.Chunks), "fingerprint", fingerprint)
	return sourceEmbedded, nil
}

func (b *Builder) buildUnit(ctx context.Context, path string, fingerprint core.Fingerprint) (*core.KnowledgeBaseUnit, error) {
	text, err := b.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	pieces := b.chunker.Chunk(text)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, extract.ErrNoText)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	metadata := core.SourceMetadata{
		Filename: source,
		Size:     info.Size(),
		Modified: info.ModTime().Unix(),
	}

	chunks := make([]core.EmbeddedChunk, len(pieces))
	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		chunks[i] = core.EmbeddedChunk{
			Chunk: core.Chunk{
				Source:      source,
				ChunkID:     i,
				Text:        piece,
				ContentHash: fingerprint,
				Metadata:    metadata,
			},
		}
		texts[i] = piece
	}

	unit := &core.KnowledgeBaseUnit{
		Fingerprint: fingerprint,
		Source:      source,
		Chunks:      chunks,
		CreatedAt:   time.Now().UTC(),
	}

	vectors, err := b.provider.Embedder().EmbedTexts(ctx, texts)
	if err != nil {
		// The unit is still persisted: its chunks stay retrievable-later
		// (nil vectors are excluded from ranking) and the extraction work
		// is not repeated on the next build.
		b.logger.Warn("error generating embeddings, persisting unit unembedded",
			"source", source, "err", err)
		return unit, nil
	}

	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d",
			len(chunks), len(vectors))
	}

	for i := range vectors {
		unit.Chunks[i].Vector = vectors[i]
	}
	unit.Model = b.provider.Model()

	return unit, nil
}

// Merge loads the stored units, keeps the current unit of each source,
// validates that the embedded units share one model identity, concatenates
// their chunks into a single knowledge base and writes it to the served
// location. The source log is updated with the filenames that contributed
// and the merge time.
//
// A source that changed between builds leaves its old unit behind under the
// old fingerprint. Superseded units stay stored but are excluded here,
// otherwise their chunks would collide with the current unit of the same
// source.
func (b *Builder) Merge(ctx context.Context) error {
	units, err := b.units.ListUnits(ctx)
	if err != nil {
		return err
	}

	current := make(map[string]*core.KnowledgeBaseUnit, len(units))
	for _, unit := range units {
		prev, ok := current[unit.Source]
		if !ok || unit.CreatedAt.After(prev.CreatedAt) {
			current[unit.Source] = unit
		}
	}

	model := ""
	for _, unit := range units {
		if current[unit.Source] != unit || !unit.Embedded() {
			continue
		}
		if model == "" {
			model = unit.Model
			continue
		}
		if unit.Model != model {
			return fmt.Errorf("%w: unit %s built with %q, knowledge base uses %q",
				core.ErrModelMismatch, unit.Fingerprint, unit.Model, model)
		}
	}

	documents := make([]core.EmbeddedChunk, 0)
	sources := make([]string, 0, len(current))
	for _, unit := range units {
		if current[unit.Source] != unit {
			b.logger.Debug("skipping superseded unit",
				"source", unit.Source, "fingerprint", unit.Fingerprint)
			continue
		}
		documents = append(documents, unit.Chunks...)
		sources = append(sources, unit.Source)
	}

	if len(documents) == 0 {
		documents = append(documents, placeholderChunk())
		b.logger.Warn("no stored units, serving placeholder knowledge base")
	}

	kb, err := core.NewKnowledgeBase(documents, model)
	if err != nil {
		return fmt.Errorf("merging units: %w", err)
	}

	if err := b.kbStore.Save(ctx, kb); err != nil {
		return err
	}

	sort.Strings(sources)
	if err := b.sourceLog.RecordProcessed(ctx, sources, time.Now().UTC()); err != nil {
		return err
	}

	b.logger.Info("knowledge base merged",
		"documents", len(kb.Documents), "sources", len(sources), "model", model)
	return nil
}

// Release releases the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

func placeholderChunk() core.EmbeddedChunk {
	return core.EmbeddedChunk{
		Chunk: core.Chunk{
			Source:      placeholderSource,
			ChunkID:     0,
			Text:        placeholderText,
			ContentHash: core.FingerprintBytes([]byte(placeholderText)),
			Metadata: core.SourceMetadata{
				Filename: placeholderSource,
			},
		},
	}
}
