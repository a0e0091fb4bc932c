package storage

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
)

// LotStore persists portfolio holdings. Lots are created and deleted, never
// updated in place.
type LotStore struct {
	db     *DB
	logger *common.Logger
}

// NewLotStore creates a lot store backed by the shared database.
func NewLotStore(db *DB, logger *common.Logger) *LotStore {
	return &LotStore{db: db, logger: logger}
}

// Add persists a new lot and returns it with its assigned ID.
func (s *LotStore) Add(_ context.Context, lot models.Lot) (models.Lot, error) {
	if lot.Quantity <= 0 {
		return models.Lot{}, fmt.Errorf("lot quantity must be positive, got %d", lot.Quantity)
	}
	if err := s.db.Store().Insert(badgerhold.NextSequence(), &lot); err != nil {
		return models.Lot{}, fmt.Errorf("failed to add lot: %w", err)
	}
	s.logger.Debug().
		Str("owner", lot.OwnerID).
		Str("program", string(lot.Program)).
		Int64("quantity", lot.Quantity).
		Msg("lot added")
	return lot, nil
}

// List returns all lots held by the owner, oldest first.
func (s *LotStore) List(_ context.Context, ownerID string) ([]models.Lot, error) {
	var lots []models.Lot
	q := badgerhold.Where("OwnerID").Eq(ownerID).Index("OwnerID").SortBy("ID")
	if err := s.db.Store().Find(&lots, q); err != nil {
		return nil, fmt.Errorf("failed to list lots for %s: %w", ownerID, err)
	}
	return lots, nil
}

// Delete removes a lot by ID. Deleting a missing lot is not an error.
func (s *LotStore) Delete(_ context.Context, id uint64) error {
	err := s.db.Store().Delete(id, models.Lot{})
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete lot %d: %w", id, err)
	}
	return nil
}
