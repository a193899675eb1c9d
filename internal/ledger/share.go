// Package ledger computes the derived financial views over gifts: per-recipient
// cost shares, budget spend, and the reconciliation report. Nothing here is
// stored; every view is recomputed on demand from the current records.
package ledger

import "github.com/dougiefresh49/gift-tracker/internal/model"

// Share returns one recipient's portion of a gift's price. A gift with no
// recipients is treated as having one so the full price is still attributed.
func Share(g *model.Gift) float64 {
	count := len(g.Recipients)
	if count < 1 {
		count = 1
	}
	return g.Price / float64(count)
}

// EffectiveGifter returns who is giving the gift: the claimer when set,
// otherwise the purchaser for an unclaimed santa gift, otherwise nobody.
func EffectiveGifter(g *model.Gift) *string {
	if g.ClaimedByID != nil && *g.ClaimedByID != "" {
		return g.ClaimedByID
	}
	if g.IsSanta && g.PurchaserID != nil && *g.PurchaserID != "" {
		return g.PurchaserID
	}
	return nil
}
