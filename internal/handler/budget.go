package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dougiefresh49/gift-tracker/internal/ledger"
	"github.com/dougiefresh49/gift-tracker/internal/model"
	"github.com/dougiefresh49/gift-tracker/internal/store"
	"github.com/dougiefresh49/gift-tracker/internal/websocket"
)

type BudgetHandler struct {
	budgetStore  *store.BudgetStore
	giftStore    *store.GiftStore
	profileStore *store.ProfileStore
	hub          *websocket.Hub
}

func NewBudgetHandler(bs *store.BudgetStore, gs *store.GiftStore, ps *store.ProfileStore, hub *websocket.Hub) *BudgetHandler {
	return &BudgetHandler{budgetStore: bs, giftStore: gs, profileStore: ps, hub: hub}
}

func (h *BudgetHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type budgetRequest struct {
	GifterID    string  `json:"gifter_id"`
	RecipientID string  `json:"recipient_id"`
	LimitAmount float64 `json:"limit_amount"`
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	b := model.Budget{GifterID: req.GifterID, RecipientID: req.RecipientID, LimitAmount: req.LimitAmount}
	if err := b.Validate(); err != nil {
		writeError(w, err)
		return
	}

	budget, err := h.budgetStore.Create(req.GifterID, req.RecipientID, req.LimitAmount)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("budget", "created", budget.ID, nil))

	writeJSON(w, http.StatusCreated, budget)
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.budgetStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.budgetStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("budget", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Summary returns every budget joined with its computed spend. The spend is
// recomputed from the gift list on each call; nothing is cached.
func (h *BudgetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.budgetStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	gifts, err := h.giftStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	profiles, err := h.profileStore.List()
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := ledger.SummarizeBudgets(budgets, gifts, profiles)
	if summaries == nil {
		summaries = []ledger.BudgetSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}
