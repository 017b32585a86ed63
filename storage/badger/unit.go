package badger

import (
	"context"
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/fossouo/creche-pilou-chatbot/core"
	"github.com/fossouo/creche-pilou-chatbot/storage"
)

// UnitRepository implements storage.UnitRepository for BadgerDB.
type UnitRepository struct {
	backend *Backend
}

var _ storage.UnitRepository = (*UnitRepository)(nil)

// NewUnitRepository creates a new UnitRepository.
func NewUnitRepository(backend *Backend) (*UnitRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &UnitRepository{backend: backend}, nil
}

// Close releases repository resources. The backend itself stays open and is
// closed by its owner.
func (r *UnitRepository) Close() error {
	return nil
}

// PutUnit stores a unit under its fingerprint, replacing any existing unit.
func (r *UnitRepository) PutUnit(ctx context.Context, unit *core.KnowledgeBaseUnit) error {
	if err := core.ValidateUnit(unit); err != nil {
		return err
	}

	value, err := storage.MarshalUnit(unit)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeUnitKey(unit.Fingerprint), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetUnit retrieves the unit stored under the given fingerprint.
func (r *UnitRepository) GetUnit(ctx context.Context, fingerprint core.Fingerprint) (*core.KnowledgeBaseUnit, error) {
	var unit *core.KnowledgeBaseUnit

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeUnitKey(fingerprint))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			unit, err = storage.UnmarshalUnit(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return unit, nil
}

// HasUnit reports whether a unit exists for the given fingerprint.
func (r *UnitRepository) HasUnit(ctx context.Context, fingerprint core.Fingerprint) (bool, error) {
	_, err := r.GetUnit(ctx, fingerprint)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListUnits returns every stored unit ordered by fingerprint.
func (r *UnitRepository) ListUnits(ctx context.Context) ([]*core.KnowledgeBaseUnit, error) {
	var units []*core.KnowledgeBaseUnit

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(unitPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				unit, err := storage.UnmarshalUnit(val)
				if err != nil {
					return err
				}
				units = append(units, unit)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return units, nil
}

// ListFingerprints returns the fingerprints of every stored unit.
func (r *UnitRepository) ListFingerprints(ctx context.Context) ([]core.Fingerprint, error) {
	var fingerprints []core.Fingerprint

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(unitPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			fingerprints = append(fingerprints,
				core.Fingerprint(strings.TrimPrefix(key, unitPrefix+":")))
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return fingerprints, nil
}
