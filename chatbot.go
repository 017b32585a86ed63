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


package chatbot

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/fossouo/creche-pilou-chatbot/ai"
	"github.com/fossouo/creche-pilou-chatbot/ai/openai"
	"github.com/fossouo/creche-pilou-chatbot/extract"
	"github.com/fossouo/creche-pilou-chatbot/ingestion"
	"github.com/fossouo/creche-pilou-chatbot/reembed"
	"github.com/fossouo/creche-pilou-chatbot/search"
	"github.com/fossouo/creche-pilou-chatbot/storage"
	"github.com/fossouo/creche-pilou-chatbot/storage/badger"
	"github.com/fossouo/creche-pilou-chatbot/storage/kbfile"
)

// Chatbot wires the storage backend, repositories and AI provider behind one
// handle. Builders and searchers created from the same Chatbot share the
// provider configuration, so the query-time embedding model is always the
// one the knowledge base was built with.
type Chatbot struct {
	backend   *badger.Backend
	units     storage.UnitRepository
	sourceLog storage.SourceLog
	kbStore   storage.KnowledgeBaseStore
	provider  ai.AIProvider
	logger    *slog.Logger
}

// Option configures a Chatbot.
type Option func(*chatbotOptions)

type chatbotOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) Option {
	return func(o *chatbotOptions) {
		o.aiConfig = config
	}
}

// New opens the unit database at dbPath and binds the served knowledge base
// file at kbPath.
func New(dbPath, kbPath string, opts ...Option) (*Chatbot, error) {
	options := &chatbotOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, err
	}

	units, err := badger.NewUnitRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	sourceLog, err := badger.NewSourceLog(backend)
	if err != nil {
		units.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		units.Close()
		backend.Close()
		return nil, err
	}

	return &Chatbot{
		backend:   backend,
		units:     units,
		sourceLog: sourceLog,
		kbStore:   kbfile.NewStore(kbPath),
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

func (c *Chatbot) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}

	if err := c.units.Close(); err != nil {
		c.logger.Error("error closing unit repository", "err", err)
		return err
	}

	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (c *Chatbot) UnitRepository() storage.UnitRepository {
	return c.units
}

func (c *Chatbot) SourceLog() storage.SourceLog {
	return c.sourceLog
}

func (c *Chatbot) KnowledgeBaseStore() storage.KnowledgeBaseStore {
	return c.kbStore
}

// NewBuilder creates a knowledge-base builder using the given text extractor.
func (c *Chatbot) NewBuilder(extractor extract.TextExtractor, opts ...ingestion.Option) (*ingestion.Builder, error) {
	return ingestion.NewBuilder(c.units, c.sourceLog, c.kbStore, c.provider, extractor, opts...)
}

// NewSearcher loads the served knowledge base and creates a retrieval engine
// over it. A missing knowledge base file yields an engine over an empty
// snapshot, so searching before the first build returns empty results rather
// than failing.
func (c *Chatbot) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Engine, error) {
	kb, err := c.kbStore.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		c.logger.Warn("no knowledge base found, serving empty snapshot")
		kb = nil
	}

	return search.NewEngine(search.NewSnapshot(kb), c.provider, opts...)
}

// NewReembedder creates a model-migration pass over every stored unit.
func (c *Chatbot) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(c.units, c.provider, config, progress)
}
