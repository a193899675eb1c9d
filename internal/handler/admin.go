package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dougiefresh49/gift-tracker/internal/store"
	"github.com/dougiefresh49/gift-tracker/internal/websocket"
)

type AdminHandler struct {
	adminStore *store.AdminStore
	hub        *websocket.Hub
}

func NewAdminHandler(as *store.AdminStore, hub *websocket.Hub) *AdminHandler {
	return &AdminHandler{adminStore: as, hub: hub}
}

func (h *AdminHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Export writes the full data set as a JSON snapshot.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.adminStore.Export()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="gift-tracker-export.json"`)
	writeJSON(w, http.StatusOK, snap)
}

// Import wipes the data set and replaces it with the posted snapshot,
// preserving ids and timestamps.
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	var snap store.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.adminStore.ImportReplace(&snap); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("data", "imported", "", nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// MasterImport loads a master gift list, creating missing profiles and
// skipping gifts that already exist by name.
func (h *AdminHandler) MasterImport(w http.ResponseWriter, r *http.Request) {
	var items []store.MasterImportItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no items to import"})
		return
	}

	result, err := h.adminStore.MasterImport(items)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("data", "imported", "", nil))

	writeJSON(w, http.StatusOK, result)
}

// Wipe deletes everything.
func (h *AdminHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.adminStore.Wipe(); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("data", "wiped", "", nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "wiped"})
}
