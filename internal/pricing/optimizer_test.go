package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/brmiles/milhas-radar/internal/models"
)

func testScenarios() []models.AcquisitionScenario {
	return []models.AcquisitionScenario{
		{
			SourceProgram:      models.ProgramLivelo,
			BasePrice:          35.00,
			DiscountPct:        0,
			BonusPct:           80,
			DestinationProgram: models.ProgramSmiles,
		},
		{
			SourceProgram:      models.ProgramEsfera,
			BasePrice:          70.00,
			DiscountPct:        50,
			BonusPct:           100,
			DestinationProgram: models.ProgramSmiles,
		},
		{
			SourceProgram:      models.ProgramLivelo,
			BasePrice:          70.00,
			DiscountPct:        30,
			BonusPct:           100,
			DestinationProgram: models.ProgramLatamPass,
		},
	}
}

func TestOptimize_PicksCheapestRoute(t *testing.T) {
	// Livelo route: 35 / 1.8 = 19.44 per thousand. Esfera route:
	// 70 * 0.5 / 2 = 17.50 per thousand. Esfera wins.
	rec, err := Optimize("Smiles", 50000, 2500.00, testScenarios())
	if err != nil {
		t.Fatal(err)
	}
	if rec.Scenario.SourceProgram != models.ProgramEsfera {
		t.Errorf("expected cheapest route via Esfera, got %s", rec.Scenario.SourceProgram)
	}
	if math.Abs(rec.CostPerThousand-17.50) > 1e-9 {
		t.Errorf("expected cost per thousand 17.50, got %v", rec.CostPerThousand)
	}
	if math.Abs(rec.TotalCost-875.00) > 1e-9 {
		t.Errorf("expected total cost 875.00, got %v", rec.TotalCost)
	}
	if rec.Action != ActionRedeemWithPoints {
		t.Errorf("expected %s, got %s", ActionRedeemWithPoints, rec.Action)
	}
	if math.Abs(rec.Savings-1625.00) > 1e-9 {
		t.Errorf("expected savings 1625.00, got %v", rec.Savings)
	}
	if rec.AvoidedLoss != 0 {
		t.Errorf("avoided loss must be zero when redeeming wins, got %v", rec.AvoidedLoss)
	}
}

func TestOptimize_CashWinsWhenCheaper(t *testing.T) {
	rec, err := Optimize("Smiles", 50000, 500.00, testScenarios())
	if err != nil {
		t.Fatal(err)
	}
	if rec.Action != ActionPayCash {
		t.Errorf("expected %s, got %s", ActionPayCash, rec.Action)
	}
	if math.Abs(rec.AvoidedLoss-375.00) > 1e-9 {
		t.Errorf("expected avoided loss 375.00, got %v", rec.AvoidedLoss)
	}
	if rec.Savings != 0 {
		t.Errorf("savings must be zero when cash wins, got %v", rec.Savings)
	}
}

func TestOptimize_DestinationAliasesMatch(t *testing.T) {
	rec, err := Optimize("latam", 10000, 9999.00, testScenarios())
	if err != nil {
		t.Fatal(err)
	}
	if rec.Destination != models.ProgramLatamPass {
		t.Errorf("expected destination %s, got %s", models.ProgramLatamPass, rec.Destination)
	}
}

func TestOptimize_NoScenarioForDestination(t *testing.T) {
	_, err := Optimize("TudoAzul", 50000, 2500.00, testScenarios())
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestOptimize_MalformedScenarioPropagates(t *testing.T) {
	scenarios := []models.AcquisitionScenario{{
		SourceProgram:      models.ProgramLivelo,
		BasePrice:          70.00,
		DiscountPct:        -10,
		DestinationProgram: models.ProgramSmiles,
	}}
	if _, err := Optimize("Smiles", 50000, 2500.00, scenarios); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
