package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dougiefresh49/gift-tracker/internal/ledger"
	"github.com/dougiefresh49/gift-tracker/internal/model"
	"github.com/dougiefresh49/gift-tracker/internal/store"
	"github.com/dougiefresh49/gift-tracker/internal/websocket"
)

type ReconciliationHandler struct {
	reconciliationStore *store.ReconciliationStore
	giftStore           *store.GiftStore
	profileStore        *store.ProfileStore
	hub                 *websocket.Hub
}

func NewReconciliationHandler(rs *store.ReconciliationStore, gs *store.GiftStore, ps *store.ProfileStore, hub *websocket.Hub) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationStore: rs, giftStore: gs, profileStore: ps, hub: hub}
}

func (h *ReconciliationHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type reconciliationRequest struct {
	GifterID        string                `json:"gifter_id"`
	RecipientID     string                `json:"recipient_id"`
	PurchaserID     string                `json:"purchaser_id"`
	Amount          float64               `json:"amount"`
	TransactionType model.TransactionType `json:"transaction_type"`
	Notes           string                `json:"notes"`
}

func (h *ReconciliationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reconciliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	rec := model.Reconciliation{
		GifterID:        req.GifterID,
		RecipientID:     req.RecipientID,
		PurchaserID:     req.PurchaserID,
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
		Notes:           req.Notes,
	}
	if err := rec.Validate(); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.reconciliationStore.Create(rec)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("reconciliation", "created", created.ID, nil))

	writeJSON(w, http.StatusCreated, created)
}

func (h *ReconciliationHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.reconciliationStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []model.Reconciliation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// Report computes who owes whom from the viewer's perspective. The viewer id
// is required; recipient ids filter the report to gifts targeting those
// recipients, and an empty filter means everyone.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("viewer_id")
	if viewerID == "" {
		writeError(w, &model.ValidationError{Field: "viewer_id", Msg: "is required"})
		return
	}
	selectedRecipients := r.URL.Query()["recipient_id"]

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

	report := ledger.BuildReport(gifts, profiles, viewerID, selectedRecipients)
	writeJSON(w, http.StatusOK, report)
}
