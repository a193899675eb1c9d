package ledger

import (
	"sort"

	"github.com/dougiefresh49/gift-tracker/internal/model"
)

// PartyTotal accumulates what the viewer owes one purchaser, or what one
// gifter owes the viewer. Returned and to-return gifts net to zero: they are
// counted but contribute nothing to the total.
type PartyTotal struct {
	ProfileID     string   `json:"profile_id"`
	ProfileName   string   `json:"profile_name"`
	Total         float64  `json:"total"`
	ReturnedCount int      `json:"returned_count"`
	GiftIDs       []string `json:"gift_ids"`
}

// Report is the reconciliation view for one viewer over a set of selected
// recipients. It is advisory: building it never mutates gifts, and recording
// a reconciliation entry does not change what a later report shows.
type Report struct {
	OwedToOthers     []PartyTotal `json:"owed_to_others"`
	OwedToYou        []PartyTotal `json:"owed_to_you"`
	TotalOutstanding float64      `json:"total_outstanding"`
	TotalOwedToYou   float64      `json:"total_owed_to_you"`
	NetBalance       float64      `json:"net_balance"`
	TotalSpending    float64      `json:"total_spending"`
}

// BuildReport computes the reconciliation ledger for the viewer across the
// selected recipients. A gift is relevant when it targets at least one
// selected recipient and the viewer is either its effective gifter or its
// purchaser. An empty recipient selection means every recipient.
func BuildReport(gifts []model.Gift, profiles []model.Profile, viewerID string, selectedRecipients []string) Report {
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}
	selected := make(map[string]bool, len(selectedRecipients))
	for _, id := range selectedRecipients {
		selected[id] = true
	}

	owed := make(map[string]*PartyTotal)   // keyed by purchaser the viewer owes
	due := make(map[string]*PartyTotal)    // keyed by gifter who owes the viewer
	var totalSpending float64

	for i := range gifts {
		g := &gifts[i]

		targetsSelected := len(selected) == 0
		for _, r := range g.Recipients {
			if selected[r.ID] {
				targetsSelected = true
				break
			}
		}
		if !targetsSelected {
			continue
		}

		gifter := EffectiveGifter(g)
		viewerIsGifter := gifter != nil && *gifter == viewerID
		viewerIsPurchaser := g.PurchaserID != nil && *g.PurchaserID == viewerID
		if !viewerIsGifter && !viewerIsPurchaser {
			continue
		}

		if g.ReturnStatus == model.ReturnNone {
			totalSpending += g.Price
		}

		// What the viewer owes the purchaser for gifts the viewer is giving.
		if viewerIsGifter && g.PurchaserID != nil && *g.PurchaserID != "" && *g.PurchaserID != viewerID {
			accumulate(owed, *g.PurchaserID, names, g)
		}

		// What the gifter owes the viewer for gifts the viewer paid for.
		if viewerIsPurchaser && gifter != nil && *gifter != viewerID {
			accumulate(due, *gifter, names, g)
		}
	}

	report := Report{
		OwedToOthers: sortedTotals(owed),
		OwedToYou:    sortedTotals(due),
	}
	for _, t := range report.OwedToOthers {
		report.TotalOutstanding += t.Total
	}
	for _, t := range report.OwedToYou {
		report.TotalOwedToYou += t.Total
	}
	report.NetBalance = report.TotalOwedToYou - report.TotalOutstanding
	report.TotalSpending = totalSpending
	return report
}

func accumulate(totals map[string]*PartyTotal, profileID string, names map[string]string, g *model.Gift) {
	t, ok := totals[profileID]
	if !ok {
		t = &PartyTotal{ProfileID: profileID, ProfileName: names[profileID]}
		totals[profileID] = t
	}
	t.GiftIDs = append(t.GiftIDs, g.ID)
	if g.ReturnStatus != model.ReturnNone {
		t.ReturnedCount++
		return
	}
	t.Total += Share(g)
}

func sortedTotals(totals map[string]*PartyTotal) []PartyTotal {
	out := make([]PartyTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProfileName != out[j].ProfileName {
			return out[i].ProfileName < out[j].ProfileName
		}
		return out[i].ProfileID < out[j].ProfileID
	})
	return out
}
