package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dougiefresh49/gift-tracker/internal/model"
	"github.com/dougiefresh49/gift-tracker/internal/store"
	"github.com/dougiefresh49/gift-tracker/internal/websocket"
)

type GiftHandler struct {
	giftStore *store.GiftStore
	hub       *websocket.Hub
}

func NewGiftHandler(gs *store.GiftStore, hub *websocket.Hub) *GiftHandler {
	return &GiftHandler{giftStore: gs, hub: hub}
}

func (h *GiftHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type giftRequest struct {
	Name         string             `json:"name"`
	Price        float64            `json:"price"`
	ImageURL     string             `json:"image_url"`
	GiftType     model.GiftType     `json:"gift_type"`
	IsSanta      bool               `json:"is_santa"`
	PurchaserID  *string            `json:"purchaser_id"`
	ClaimedByID  *string            `json:"claimed_by_id"`
	CreatedByID  *string            `json:"created_by_id"`
	ReturnStatus model.ReturnStatus `json:"return_status"`
	RecipientIDs []string           `json:"recipient_ids"`
	Tags         *[]string          `json:"tags"`
}

// normalize fills enum defaults so omitted fields behave like the zero case
// rather than failing validation.
func (req *giftRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	if req.GiftType == "" {
		req.GiftType = model.GiftTypeItem
	}
	if req.ReturnStatus == "" {
		req.ReturnStatus = model.ReturnNone
	}
}

func (h *GiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req giftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.normalize()
	if err := model.ValidateGift(req.Name, req.Price, req.GiftType, req.ReturnStatus, len(req.RecipientIDs)); err != nil {
		writeError(w, err)
		return
	}

	in := store.GiftInput{
		Name:         req.Name,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		GiftType:     req.GiftType,
		IsSanta:      req.IsSanta,
		PurchaserID:  req.PurchaserID,
		ClaimedByID:  req.ClaimedByID,
		CreatedByID:  req.CreatedByID,
		ReturnStatus: req.ReturnStatus,
		RecipientIDs: req.RecipientIDs,
	}
	if req.Tags != nil {
		in.Tags = *req.Tags
	}

	gift, err := h.giftStore.Create(in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("gift", "created", gift.ID, nil))

	writeJSON(w, http.StatusCreated, gift)
}

func (h *GiftHandler) List(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.giftStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if gifts == nil {
		gifts = []model.Gift{}
	}
	writeJSON(w, http.StatusOK, gifts)
}

func (h *GiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	gift, err := h.giftStore.GetByID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gift)
}

func (h *GiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req giftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.normalize()
	if err := model.ValidateGift(req.Name, req.Price, req.GiftType, req.ReturnStatus, len(req.RecipientIDs)); err != nil {
		writeError(w, err)
		return
	}

	gift, err := h.giftStore.Update(id, store.GiftUpdate{
		Name:         req.Name,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		GiftType:     req.GiftType,
		IsSanta:      req.IsSanta,
		PurchaserID:  req.PurchaserID,
		ClaimedByID:  req.ClaimedByID,
		ReturnStatus: req.ReturnStatus,
		RecipientIDs: req.RecipientIDs,
		Tags:         req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("gift", "updated", gift.ID, nil))

	writeJSON(w, http.StatusOK, gift)
}

func (h *GiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.giftStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("gift", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type claimRequest struct {
	ProfileID string `json:"profile_id"`
}

func (h *GiftHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ProfileID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "profile_id is required"})
		return
	}

	gift, err := h.giftStore.Claim(id, req.ProfileID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("gift", "claimed", gift.ID, map[string]any{"claimed_by_id": req.ProfileID}))

	writeJSON(w, http.StatusOK, gift)
}

func (h *GiftHandler) Unclaim(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	gift, err := h.giftStore.Unclaim(id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("gift", "unclaimed", gift.ID, nil))

	writeJSON(w, http.StatusOK, gift)
}

type toggleRecipientRequest struct {
	ProfileID string `json:"profile_id"`
	IsAdding  bool   `json:"is_adding"`
}

func (h *GiftHandler) ToggleRecipient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req toggleRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ProfileID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "profile_id is required"})
		return
	}

	if err := h.giftStore.ToggleRecipient(id, req.ProfileID, req.IsAdding); err != nil {
		writeError(w, err)
		return
	}

	gift, err := h.giftStore.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("gift", "updated", id, nil))

	writeJSON(w, http.StatusOK, gift)
}

type returnStatusRequest struct {
	ReturnStatus model.ReturnStatus `json:"return_status"`
}

func (h *GiftHandler) UpdateReturnStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req returnStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if !model.ValidReturnStatus(req.ReturnStatus) {
		writeError(w, &model.ValidationError{Field: "return_status", Msg: "unknown return status"})
		return
	}

	gift, err := h.giftStore.SetReturnStatus(id, req.ReturnStatus)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("gift", "updated", gift.ID, nil))

	writeJSON(w, http.StatusOK, gift)
}

type bulkUpdateRequest struct {
	GiftIDs      []string            `json:"gift_ids"`
	RecipientIDs *[]string           `json:"recipient_ids"`
	PurchaserID  *string             `json:"purchaser_id"`
	IsSanta      *bool               `json:"is_santa"`
	ReturnStatus *model.ReturnStatus `json:"return_status"`
	ClaimedByID  *string             `json:"claimed_by_id"`
}

// BulkUpdate applies the supplied fields to every listed gift. Absent fields
// are untouched; an empty string clears purchaser or claimer. The batch is
// not atomic: failures on some gifts do not roll back the rest.
func (h *GiftHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.GiftIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "gift_ids is required"})
		return
	}
	if req.ReturnStatus != nil && !model.ValidReturnStatus(*req.ReturnStatus) {
		writeError(w, &model.ValidationError{Field: "return_status", Msg: "unknown return status"})
		return
	}

	err := h.giftStore.BulkUpdate(req.GiftIDs, store.BulkGiftUpdate{
		RecipientIDs: req.RecipientIDs,
		PurchaserID:  req.PurchaserID,
		IsSanta:      req.IsSanta,
		ReturnStatus: req.ReturnStatus,
		ClaimedByID:  req.ClaimedByID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	for _, id := range req.GiftIDs {
		h.broadcast(websocket.NewMessage("gift", "updated", id, nil))
	}

	writeJSON(w, http.StatusOK, map[string]any{"updated": len(req.GiftIDs)})
}
