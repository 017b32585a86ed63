// Package kbfile persists the merged, served knowledge base as a JSON file
// with two top-level fields, documents and model. The file is the only
// artifact the retrieval engine loads at service start.
package kbfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fossouo/creche-pilou-chatbot/core"
	"github.com/fossouo/creche-pilou-chatbot/storage"
)

// Store implements storage.KnowledgeBaseStore on a single JSON file.
type Store struct {
	path   string
	logger *slog.Logger
}

var _ storage.KnowledgeBaseStore = (*Store)(nil)

// NewStore creates a store writing to the given file path.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: slog.Default().With("component", "kbfile-store"),
	}
}

// Path returns the served knowledge-base location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the knowledge base, replacing any previous version atomically:
// the JSON is written to a temporary file in the same directory and renamed
// over the served location, so a concurrent reader never sees a partial file.
func (s *Store) Save(ctx context.Context, kb *core.KnowledgeBase) error {
	data, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".kb-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}

	s.logger.Info("knowledge base saved", "path", s.path, "documents", len(kb.Documents), "model", kb.Model)
	return nil
}

// Load reads the served knowledge base and re-validates its invariants:
// unique (source, chunk id) pairs, one model identity, one dimensionality.
// Returns storage.ErrNotFound if no knowledge base has been saved yet.
func (s *Store) Load(ctx context.Context) (*core.KnowledgeBase, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, s.path)
		}
		return nil, err
	}

	var raw core.KnowledgeBase
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}

	kb, err := core.NewKnowledgeBase(raw.Documents, raw.Model)
	if err != nil {
		return nil, fmt.Errorf("served knowledge base is inconsistent: %w", err)
	}

	s.logger.Info("knowledge base loaded", "path", s.path, "documents", len(kb.Documents), "model", kb.Model)
	return kb, nil
}
