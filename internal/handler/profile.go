package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dougiefresh49/gift-tracker/internal/model"
	"github.com/dougiefresh49/gift-tracker/internal/store"
	"github.com/dougiefresh49/gift-tracker/internal/websocket"
)

type ProfileHandler struct {
	profileStore *store.ProfileStore
	hub          *websocket.Hub
}

func NewProfileHandler(ps *store.ProfileStore, hub *websocket.Hub) *ProfileHandler {
	return &ProfileHandler{profileStore: ps, hub: hub}
}

func (h *ProfileHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type profileRequest struct {
	Name string `json:"name"`
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	p := model.Profile{Name: req.Name}
	if err := p.Validate(); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profileStore.Create(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("profile", "created", profile.ID, nil))

	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

// Delete removes a profile. Gift references to it are nulled out and any
// gifts it had claimed show as claimable again, its recipient links and
// budgets cascade away, and the settlement log keeps its id.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.profileStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("profile", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
