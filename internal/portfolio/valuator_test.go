package portfolio

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/brmiles/milhas-radar/internal/models"
)

// stubResolver serves fixed snapshots per program.
type stubResolver struct {
	snapshots map[models.Program]models.MarketSnapshot
	err       error
}

func (s *stubResolver) Resolve(_ context.Context, program string) (models.MarketSnapshot, error) {
	if s.err != nil {
		return models.MarketSnapshot{}, s.err
	}
	p := models.CanonicalProgram(program)
	snap, ok := s.snapshots[p]
	if !ok {
		return models.MarketSnapshot{Program: p, Source: models.SourceNone}, nil
	}
	return snap, nil
}

func TestValuate_ProfitAndMargin(t *testing.T) {
	resolver := &stubResolver{snapshots: map[models.Program]models.MarketSnapshot{
		models.ProgramSmiles: {
			Program:   models.ProgramSmiles,
			BestPrice: 20.00,
			Source:    models.SourceScraped,
		},
	}}
	lot, err := models.NewLot("bruno", "Smiles", 50000, 1500.00)
	if err != nil {
		t.Fatal(err)
	}

	v, err := NewValuator(resolver).Valuate(context.Background(), []models.Lot{lot})
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Lots) != 1 {
		t.Fatalf("expected 1 valuation, got %d", len(v.Lots))
	}
	lv := v.Lots[0]
	if math.Abs(lv.MarketValue-1000.00) > 1e-9 {
		t.Errorf("expected market value 1000.00, got %v", lv.MarketValue)
	}
	if math.Abs(lv.Profit-(-500.00)) > 1e-9 {
		t.Errorf("expected profit -500.00, got %v", lv.Profit)
	}
	if math.Abs(lv.MarginPct-(-33.333333333333336)) > 1e-6 {
		t.Errorf("expected margin around -33.3, got %v", lv.MarginPct)
	}
}

func TestValuate_ZeroCostLotHasZeroMargin(t *testing.T) {
	resolver := &stubResolver{snapshots: map[models.Program]models.MarketSnapshot{
		models.ProgramSmiles: {Program: models.ProgramSmiles, BestPrice: 18.00, Source: models.SourceScraped},
	}}
	lot, err := models.NewLot("bruno", "Smiles", 10000, 0)
	if err != nil {
		t.Fatal(err)
	}

	v, err := NewValuator(resolver).Valuate(context.Background(), []models.Lot{lot})
	if err != nil {
		t.Fatal(err)
	}
	if v.Lots[0].MarginPct != 0 {
		t.Errorf("zero-cost lot must report zero margin, got %v", v.Lots[0].MarginPct)
	}
	if math.Abs(v.Lots[0].Profit-180.00) > 1e-9 {
		t.Errorf("expected profit 180.00, got %v", v.Lots[0].Profit)
	}
}

func TestValuate_LotWithNoQuoteValuesAtZero(t *testing.T) {
	lot, err := models.NewLot("bruno", "Esfera", 20000, 400.00)
	if err != nil {
		t.Fatal(err)
	}

	v, err := NewValuator(&stubResolver{}).Valuate(context.Background(), []models.Lot{lot})
	if err != nil {
		t.Fatal(err)
	}
	lv := v.Lots[0]
	if lv.Snapshot.Source != models.SourceNone {
		t.Errorf("expected %q snapshot, got %q", models.SourceNone, lv.Snapshot.Source)
	}
	if lv.MarketValue != 0 {
		t.Errorf("unquoted lot must value at zero, got %v", lv.MarketValue)
	}
	if math.Abs(lv.Profit-(-400.00)) > 1e-9 {
		t.Errorf("expected profit -400.00, got %v", lv.Profit)
	}
}

func TestValuate_Aggregates(t *testing.T) {
	resolver := &stubResolver{snapshots: map[models.Program]models.MarketSnapshot{
		models.ProgramSmiles:    {Program: models.ProgramSmiles, BestPrice: 20.00, Source: models.SourceScraped},
		models.ProgramLatamPass: {Program: models.ProgramLatamPass, BestPrice: 25.00, Source: models.SourceP2P},
	}}
	smiles, err := models.NewLot("bruno", "Smiles", 50000, 900.00)
	if err != nil {
		t.Fatal(err)
	}
	latam, err := models.NewLot("bruno", "Latam Pass", 20000, 600.00)
	if err != nil {
		t.Fatal(err)
	}

	v, err := NewValuator(resolver).Valuate(context.Background(), []models.Lot{smiles, latam})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v.TotalCost-1500.00) > 1e-9 {
		t.Errorf("expected total cost 1500.00, got %v", v.TotalCost)
	}
	// 50*20 + 20*25 = 1000 + 500
	if math.Abs(v.TotalValue-1500.00) > 1e-9 {
		t.Errorf("expected total value 1500.00, got %v", v.TotalValue)
	}
	if math.Abs(v.TotalProfit) > 1e-9 {
		t.Errorf("expected flat portfolio, got profit %v", v.TotalProfit)
	}
}

func TestValuate_ResolverErrorPropagates(t *testing.T) {
	wantErr := errors.New("store unavailable")
	lot, err := models.NewLot("bruno", "Smiles", 10000, 100.00)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewValuator(&stubResolver{err: wantErr}).Valuate(context.Background(), []models.Lot{lot}); !errors.Is(err, wantErr) {
		t.Errorf("expected resolver error to propagate, got %v", err)
	}
}
