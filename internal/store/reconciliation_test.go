package store

import (
	"testing"

	"github.com/dougiefresh49/gift-tracker/internal/database"
	"github.com/dougiefresh49/gift-tracker/internal/model"
)

func setupReconciliationTestDB(t *testing.T) (*ReconciliationStore, *ProfileStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReconciliationStore(db), NewProfileStore(db)
}

func TestReconciliationCreateAndList(t *testing.T) {
	rs, ps := setupReconciliationTestDB(t)
	alice, _ := ps.Create("Alice")
	bob, _ := ps.Create("Bob")
	kid, _ := ps.Create("Kid")

	r, err := rs.Create(model.Reconciliation{
		GifterID:        alice.ID,
		RecipientID:     kid.ID,
		PurchaserID:     bob.ID,
		Amount:          42.50,
		TransactionType: model.TransactionCash,
		Notes:           "settled at dinner",
	})
	if err != nil {
		t.Fatalf("create reconciliation: %v", err)
	}
	if r.ID == "" {
		t.Error("expected generated id")
	}
	if r.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	recs, err := rs.List()
	if err != nil {
		t.Fatalf("list reconciliations: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	if recs[0].Amount != 42.50 {
		t.Errorf("amount = %v, want 42.50", recs[0].Amount)
	}
	if recs[0].Notes != "settled at dinner" {
		t.Errorf("notes = %q, want %q", recs[0].Notes, "settled at dinner")
	}
}

func TestReconciliationLogSurvivesProfileDeletion(t *testing.T) {
	rs, ps := setupReconciliationTestDB(t)
	alice, _ := ps.Create("Alice")
	bob, _ := ps.Create("Bob")
	kid, _ := ps.Create("Kid")

	if _, err := rs.Create(model.Reconciliation{
		GifterID:        alice.ID,
		RecipientID:     kid.ID,
		PurchaserID:     bob.ID,
		Amount:          10,
		TransactionType: model.TransactionIOU,
	}); err != nil {
		t.Fatalf("create reconciliation: %v", err)
	}

	if err := ps.Delete(bob.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	recs, err := rs.List()
	if err != nil {
		t.Fatalf("list reconciliations: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("len = %d, want the log intact", len(recs))
	}
	if recs[0].PurchaserID != bob.ID {
		t.Errorf("purchaser_id = %q, want the original id preserved", recs[0].PurchaserID)
	}
}

func TestReconciliationListNewestFirst(t *testing.T) {
	rs, ps := setupReconciliationTestDB(t)
	alice, _ := ps.Create("Alice")
	bob, _ := ps.Create("Bob")
	kid, _ := ps.Create("Kid")

	for _, amount := range []float64{1, 2, 3} {
		if _, err := rs.Create(model.Reconciliation{
			GifterID:        alice.ID,
			RecipientID:     kid.ID,
			PurchaserID:     bob.ID,
			Amount:          amount,
			TransactionType: model.TransactionCash,
		}); err != nil {
			t.Fatalf("create reconciliation: %v", err)
		}
	}

	recs, err := rs.List()
	if err != nil {
		t.Fatalf("list reconciliations: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
}
