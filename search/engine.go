package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fossouo/creche-pilou-chatbot/ai"
	"github.com/fossouo/creche-pilou-chatbot/core"
)

// Engine ranks the chunks of an immutable knowledge-base snapshot by cosine
// similarity against an embedded query. It is stateless per call: there is no
// session or conversational memory, each query is independent.
type Engine struct {
	snapshot *Snapshot
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a retrieval engine over the given snapshot. The provider
// must be configured with the same embedding model identity the knowledge
// base was built with; embedding queries under a different identity silently
// produces meaningless scores.
func NewEngine(snapshot *Snapshot, provider ai.AIProvider, opts ...Option) (*Engine, error) {
	if snapshot == nil {
		return nil, ErrSnapshotRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	e := &Engine{
		snapshot: snapshot,
		embedder: provider.Embedder(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Model returns the model identity of the currently served knowledge base.
func (e *Engine) Model() string {
	return e.snapshot.Current().Model
}

// Search returns up to topK chunks ranked by cosine similarity to the query.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]core.RankedChunk, error) {
	return e.SearchWithMonitor(ctx, query, topK, nil)
}

// SearchWithMonitor is Search with observation hooks at each stage.
//
// An empty knowledge base yields an empty result, not an error. A failed
// query embedding yields ErrSearchUnavailable; it is never folded into an
// empty result. Relevance thresholding is the caller's policy: the engine
// always returns its best-effort ranking.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) ([]core.RankedChunk, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, ErrInvalidLimit
	}

	monitor.Start(query)

	kb := e.snapshot.Current()
	if kb.Empty() {
		return []core.RankedChunk{}, nil
	}

	queryVector, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}
	monitor.AfterQueryEmbedding(len(queryVector))

	// Score every embedded chunk; chunks without a vector are skipped,
	// not scored as zero.
	results := make([]core.RankedChunk, 0, len(kb.Documents))
	skipped := 0
	for i := range kb.Documents {
		doc := &kb.Documents[i]
		if !doc.Embedded() {
			skipped++
			continue
		}
		results = append(results, core.RankedChunk{
			Chunk: doc.Chunk,
			Score: CosineSimilarity(queryVector, doc.Vector),
		})
	}
	monitor.AfterScoring(len(results), skipped)

	// Stable sort keeps original chunk order on ties, so rankings are
	// deterministic across runs.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	monitor.Finish(results)

	e.logger.Debug("search completed", "query_len", len(query), "results", len(results), "skipped", skipped)
	return results, nil
}
