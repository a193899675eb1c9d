package ledger

import (
	"math"
	"testing"

	"github.com/dougiefresh49/gift-tracker/internal/model"
)

func santaGift(price float64, purchaser string, recipientIDs ...string) model.Gift {
	g := giftFor(price, "", model.ReturnNone, recipientIDs...)
	g.IsSanta = true
	g.Status = model.StatusSanta
	g.PurchaserID = strptr(purchaser)
	return g
}

func TestEffectiveGifter(t *testing.T) {
	claimed := giftFor(10, "alice", model.ReturnNone, "bob")
	if got := EffectiveGifter(&claimed); got == nil || *got != "alice" {
		t.Errorf("claimed gift: effective gifter = %v, want alice", got)
	}

	santa := santaGift(10, "carol", "bob")
	if got := EffectiveGifter(&santa); got == nil || *got != "carol" {
		t.Errorf("unclaimed santa gift: effective gifter = %v, want purchaser carol", got)
	}

	santaClaimed := santaGift(10, "carol", "bob")
	santaClaimed.ClaimedByID = strptr("alice")
	if got := EffectiveGifter(&santaClaimed); got == nil || *got != "alice" {
		t.Errorf("claimed santa gift: effective gifter = %v, want claimer alice", got)
	}

	plain := giftFor(10, "", model.ReturnNone, "bob")
	if got := EffectiveGifter(&plain); got != nil {
		t.Errorf("unclaimed plain gift: effective gifter = %v, want nil", got)
	}
}

func TestReportOwedToOthers(t *testing.T) {
	// Alice claimed two gifts Carol purchased, one split across two recipients.
	g1 := giftFor(100, "alice", model.ReturnNone, "bob")
	g1.PurchaserID = strptr("carol")
	g2 := giftFor(60, "alice", model.ReturnNone, "bob", "dave")
	g2.PurchaserID = strptr("carol")

	report := BuildReport([]model.Gift{g1, g2}, profileList("alice", "bob", "carol", "dave"), "alice", []string{"bob"})

	if len(report.OwedToOthers) != 1 {
		t.Fatalf("expected 1 purchaser total, got %d", len(report.OwedToOthers))
	}
	got := report.OwedToOthers[0]
	if got.ProfileID != "carol" {
		t.Errorf("purchaser = %q, want carol", got.ProfileID)
	}
	// 100 for g1 plus the per-recipient share (30) of g2.
	if math.Abs(got.Total-130) > epsilon {
		t.Errorf("total = %f, want 130", got.Total)
	}
	if math.Abs(report.TotalOutstanding-130) > epsilon {
		t.Errorf("outstanding = %f, want 130", report.TotalOutstanding)
	}
	// Spending counts full price, not the split share.
	if math.Abs(report.TotalSpending-160) > epsilon {
		t.Errorf("spending = %f, want 160", report.TotalSpending)
	}
}

func TestReportReturnedGiftsNetToZero(t *testing.T) {
	g1 := giftFor(100, "alice", model.ReturnNone, "bob")
	g1.PurchaserID = strptr("carol")
	g2 := giftFor(40, "alice", model.ReturnReturned, "bob")
	g2.PurchaserID = strptr("carol")

	report := BuildReport([]model.Gift{g1, g2}, profileList("alice", "bob", "carol"), "alice", []string{"bob"})

	got := report.OwedToOthers[0]
	// The returned gift is counted but does not subtract as a credit.
	if math.Abs(got.Total-100) > epsilon {
		t.Errorf("total = %f, want 100 (returned gift nets to zero)", got.Total)
	}
	if got.ReturnedCount != 1 {
		t.Errorf("returned count = %d, want 1", got.ReturnedCount)
	}
	if math.Abs(report.TotalSpending-100) > epsilon {
		t.Errorf("spending = %f, want 100", report.TotalSpending)
	}
}

func TestReportOwedToViewer(t *testing.T) {
	// Alice purchased a gift that Bob claimed: Bob owes Alice.
	g := giftFor(80, "bob", model.ReturnNone, "carol")
	g.PurchaserID = strptr("alice")

	report := BuildReport([]model.Gift{g}, profileList("alice", "bob", "carol"), "alice", []string{"carol"})

	if len(report.OwedToOthers) != 0 {
		t.Errorf("expected nothing owed to others, got %v", report.OwedToOthers)
	}
	if len(report.OwedToYou) != 1 {
		t.Fatalf("expected 1 gifter owing the viewer, got %d", len(report.OwedToYou))
	}
	got := report.OwedToYou[0]
	if got.ProfileID != "bob" || math.Abs(got.Total-80) > epsilon {
		t.Errorf("owed to you = %q %f, want bob 80", got.ProfileID, got.Total)
	}
	if math.Abs(report.NetBalance-80) > epsilon {
		t.Errorf("net balance = %f, want 80", report.NetBalance)
	}
}

func TestReportUnclaimedSantaAttributedToPurchaser(t *testing.T) {
	// Alice purchased a santa gift nobody claimed: she is its gifter, and
	// owes nobody for it (she paid herself).
	g := santaGift(30, "alice", "bob")

	report := BuildReport([]model.Gift{g}, profileList("alice", "bob"), "alice", []string{"bob"})

	if len(report.OwedToOthers) != 0 || len(report.OwedToYou) != 0 {
		t.Errorf("self-purchased santa gift should create no debts: %+v", report)
	}
	if math.Abs(report.TotalSpending-30) > epsilon {
		t.Errorf("spending = %f, want 30", report.TotalSpending)
	}
}

func TestReportFiltersBySelectedRecipients(t *testing.T) {
	g1 := giftFor(50, "alice", model.ReturnNone, "bob")
	g1.PurchaserID = strptr("carol")
	g2 := giftFor(70, "alice", model.ReturnNone, "dave")
	g2.PurchaserID = strptr("carol")

	report := BuildReport([]model.Gift{g1, g2}, profileList("alice", "bob", "carol", "dave"), "alice", []string{"bob"})

	if math.Abs(report.TotalOutstanding-50) > epsilon {
		t.Errorf("outstanding = %f, want 50 (dave's gift not selected)", report.TotalOutstanding)
	}
}

func TestReportEmptySelectionMeansEveryone(t *testing.T) {
	g1 := giftFor(50, "alice", model.ReturnNone, "bob")
	g1.PurchaserID = strptr("carol")
	g2 := giftFor(70, "alice", model.ReturnNone, "dave")
	g2.PurchaserID = strptr("carol")

	report := BuildReport([]model.Gift{g1, g2}, profileList("alice", "bob", "carol", "dave"), "alice", nil)

	if math.Abs(report.TotalOutstanding-120) > epsilon {
		t.Errorf("outstanding = %f, want 120 with no recipient filter", report.TotalOutstanding)
	}
}

func TestReportNetBalance(t *testing.T) {
	owedByViewer := giftFor(100, "alice", model.ReturnNone, "bob")
	owedByViewer.PurchaserID = strptr("carol")
	owedToViewer := giftFor(40, "carol", model.ReturnNone, "bob")
	owedToViewer.PurchaserID = strptr("alice")

	report := BuildReport([]model.Gift{owedByViewer, owedToViewer}, profileList("alice", "bob", "carol"), "alice", []string{"bob"})

	if math.Abs(report.TotalOutstanding-100) > epsilon {
		t.Errorf("outstanding = %f, want 100", report.TotalOutstanding)
	}
	if math.Abs(report.TotalOwedToYou-40) > epsilon {
		t.Errorf("owed to you = %f, want 40", report.TotalOwedToYou)
	}
	if math.Abs(report.NetBalance-(-60)) > epsilon {
		t.Errorf("net balance = %f, want -60", report.NetBalance)
	}
}
