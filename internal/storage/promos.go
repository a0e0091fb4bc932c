package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
)

// PromoStore persists promotions spotted in announcement feeds, keyed by link
// so a headline is only ever alerted once.
type PromoStore struct {
	db     *DB
	logger *common.Logger
}

// NewPromoStore creates a promo store backed by the shared database.
func NewPromoStore(db *DB, logger *common.Logger) *PromoStore {
	return &PromoStore{db: db, logger: logger}
}

// Seen reports whether a promotion link has already been recorded.
func (s *PromoStore) Seen(_ context.Context, link string) (bool, error) {
	var p models.Promotion
	err := s.db.Store().Get(link, &p)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check promotion %s: %w", link, err)
	}
	return true, nil
}

// Record stores a promotion. Recording the same link twice is a no-op.
func (s *PromoStore) Record(_ context.Context, p models.Promotion) error {
	err := s.db.Store().Insert(p.Link, &p)
	if err == badgerhold.ErrKeyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record promotion %s: %w", p.Link, err)
	}
	return nil
}

// All returns every recorded promotion, newest first.
func (s *PromoStore) All(_ context.Context) ([]models.Promotion, error) {
	var promos []models.Promotion
	if err := s.db.Store().Find(&promos, nil); err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	sort.Slice(promos, func(i, j int) bool {
		return promos[i].FoundAt.After(promos[j].FoundAt)
	})
	return promos, nil
}
