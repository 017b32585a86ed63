package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fossouo/creche-pilou-chatbot/storage"
)

// SourceLog implements storage.SourceLog for BadgerDB.
type SourceLog struct {
	backend *Backend
}

var _ storage.SourceLog = (*SourceLog)(nil)

// NewSourceLog creates a new SourceLog.
func NewSourceLog(backend *Backend) (*SourceLog, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &SourceLog{backend: backend}, nil
}

// RecordProcessed replaces the record of processed source filenames.
func (l *SourceLog) RecordProcessed(ctx context.Context, sources []string, at time.Time) error {
	value, err := storage.MarshalSourceRecord(&storage.SourceRecord{
		Sources:     sources,
		LastUpdated: at.UTC(),
	})
	if err != nil {
		return err
	}

	return l.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSourceLogKey(), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LastProcessed returns the current record, or storage.ErrNotFound if no
// build has run yet.
func (l *SourceLog) LastProcessed(ctx context.Context) (*storage.SourceRecord, error) {
	var record *storage.SourceRecord

	err := l.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceLogKey())
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalSourceRecord(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return record, nil
}
