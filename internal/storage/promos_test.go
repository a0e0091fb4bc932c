package storage

import (
	"context"
	"testing"
	"time"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
)

func TestPromoStore_SeenAndRecord(t *testing.T) {
	db := setupTestDB(t)
	store := NewPromoStore(db, common.NewSilentLogger())
	ctx := context.Background()

	link := "https://example.test/livelo-100"

	seen, err := store.Seen(ctx, link)
	if err != nil {
		t.Fatalf("Seen failed: %v", err)
	}
	if seen {
		t.Error("expected unseen link")
	}

	promo := models.Promotion{
		Link:     link,
		Title:    "Livelo com 100% de bônus",
		Source:   "Test Feed",
		Program:  models.ProgramLivelo,
		BonusPct: 100,
		FoundAt:  time.Now(),
	}
	if err := store.Record(ctx, promo); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	seen, err = store.Seen(ctx, link)
	if err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Error("expected link to be seen after record")
	}

	// Recording the same link again is a no-op, not an error.
	if err := store.Record(ctx, promo); err != nil {
		t.Errorf("duplicate record should be a no-op, got %v", err)
	}

	promos, err := store.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(promos) != 1 {
		t.Fatalf("expected 1 promotion, got %d", len(promos))
	}
	if promos[0].BonusPct != 100 {
		t.Errorf("expected bonus 100, got %.0f", promos[0].BonusPct)
	}
}
