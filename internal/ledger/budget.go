package ledger

import "github.com/dougiefresh49/gift-tracker/internal/model"

// BudgetSummary is the computed view for one budget row.
type BudgetSummary struct {
	Budget        model.Budget `json:"budget"`
	GifterName    string       `json:"gifter_name"`
	RecipientName string       `json:"recipient_name"`
	Spent         float64      `json:"spent"`
	Percentage    float64      `json:"percentage"`
	IsOverBudget  bool         `json:"is_over_budget"`
}

// Spend sums the gifter's per-recipient shares toward one recipient. Only
// gifts claimed by the gifter count, and gifts marked returned or to-return
// are excluded entirely.
func Spend(gifts []model.Gift, gifterID, recipientID string) float64 {
	var spent float64
	for i := range gifts {
		g := &gifts[i]
		if g.ClaimedByID == nil || *g.ClaimedByID != gifterID {
			continue
		}
		if g.ReturnStatus != model.ReturnNone {
			continue
		}
		if !g.HasRecipient(recipientID) {
			continue
		}
		spent += Share(g)
	}
	return spent
}

// SummarizeBudgets computes the spend view for every budget row. Duplicate
// (gifter, recipient) budgets each get their own independent summary.
func SummarizeBudgets(budgets []model.Budget, gifts []model.Gift, profiles []model.Profile) []BudgetSummary {
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}

	summaries := make([]BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		spent := Spend(gifts, b.GifterID, b.RecipientID)

		var percentage float64
		if b.LimitAmount > 0 {
			percentage = spent / b.LimitAmount * 100
			if percentage > 100 {
				percentage = 100
			}
		}

		summaries = append(summaries, BudgetSummary{
			Budget:        b,
			GifterName:    names[b.GifterID],
			RecipientName: names[b.RecipientID],
			Spent:         spent,
			Percentage:    percentage,
			IsOverBudget:  spent > b.LimitAmount,
		})
	}
	return summaries
}
