package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
)

// QuoteStore is the append-only time series of scraped quotes and
// peer-submitted offers. Absence of data is an expected state: Latest and
// LatestOffer return (nil, nil) when a program has no history yet.
type QuoteStore struct {
	db     *DB
	logger *common.Logger
}

// NewQuoteStore creates a quote store backed by the shared database.
func NewQuoteStore(db *DB, logger *common.Logger) *QuoteStore {
	return &QuoteStore{db: db, logger: logger}
}

// Record appends one quote row. The program is canonicalized and the
// timestamp defaulted before write; the row is never modified afterwards.
func (s *QuoteStore) Record(_ context.Context, q *models.Quote) error {
	q.Program = models.CanonicalProgram(string(q.Program))
	if q.RecordedAt.IsZero() {
		q.RecordedAt = time.Now()
	}
	if err := s.db.Store().Insert(badgerhold.NextSequence(), q); err != nil {
		return fmt.Errorf("failed to record quote for %s: %w", q.Program, err)
	}
	s.logger.Debug().
		Str("program", string(q.Program)).
		Int("tenor_days", q.TenorDays).
		Float64("cpm", q.CPM).
		Msg("quote recorded")
	return nil
}

// Latest returns the most recently inserted quote for the program,
// or (nil, nil) when none exists.
func (s *QuoteStore) Latest(_ context.Context, program string) (*models.Quote, error) {
	p := models.CanonicalProgram(program)
	var rows []models.Quote
	q := badgerhold.Where("Program").Eq(p).Index("Program").SortBy("ID").Reverse().Limit(1)
	if err := s.db.Store().Find(&rows, q); err != nil {
		return nil, fmt.Errorf("failed to query latest quote for %s: %w", p, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Series returns the full quote history for the program in insertion order.
func (s *QuoteStore) Series(_ context.Context, program string) ([]models.Quote, error) {
	p := models.CanonicalProgram(program)
	var rows []models.Quote
	q := badgerhold.Where("Program").Eq(p).Index("Program").SortBy("ID")
	if err := s.db.Store().Find(&rows, q); err != nil {
		return nil, fmt.Errorf("failed to query quote series for %s: %w", p, err)
	}
	return rows, nil
}

// Delta returns latest.CPM minus second-latest.CPM, or 0 when fewer than two
// rows exist.
func (s *QuoteStore) Delta(_ context.Context, program string) (float64, error) {
	p := models.CanonicalProgram(program)
	var rows []models.Quote
	q := badgerhold.Where("Program").Eq(p).Index("Program").SortBy("ID").Reverse().Limit(2)
	if err := s.db.Store().Find(&rows, q); err != nil {
		return 0, fmt.Errorf("failed to query quote delta for %s: %w", p, err)
	}
	if len(rows) < 2 {
		return 0, nil
	}
	return rows[0].CPM - rows[1].CPM, nil
}

// RecordOffer appends one peer offer row.
func (s *QuoteStore) RecordOffer(_ context.Context, o *models.P2POffer) error {
	o.Program = models.CanonicalProgram(string(o.Program))
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now()
	}
	if err := s.db.Store().Insert(badgerhold.NextSequence(), o); err != nil {
		return fmt.Errorf("failed to record offer for %s: %w", o.Program, err)
	}
	s.logger.Debug().
		Str("program", string(o.Program)).
		Str("source", o.SourceLabel).
		Float64("price_per_thousand", o.PricePerThousand).
		Msg("peer offer recorded")
	return nil
}

// LatestOffer returns the most recently inserted peer offer for the program,
// or (nil, nil) when none exists.
func (s *QuoteStore) LatestOffer(_ context.Context, program string) (*models.P2POffer, error) {
	p := models.CanonicalProgram(program)
	var rows []models.P2POffer
	q := badgerhold.Where("Program").Eq(p).Index("Program").SortBy("ID").Reverse().Limit(1)
	if err := s.db.Store().Find(&rows, q); err != nil {
		return nil, fmt.Errorf("failed to query latest offer for %s: %w", p, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
