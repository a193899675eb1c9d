package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dougiefresh49/gift-tracker/internal/backup"
	"github.com/dougiefresh49/gift-tracker/internal/store"
	"github.com/dougiefresh49/gift-tracker/internal/websocket"
)

type BackupHandler struct {
	manager    *backup.Manager
	adminStore *store.AdminStore
	hub        *websocket.Hub
}

func NewBackupHandler(m *backup.Manager, as *store.AdminStore, hub *websocket.Hub) *BackupHandler {
	return &BackupHandler{manager: m, adminStore: as, hub: hub}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

// Run triggers an immediate backup and returns the uploaded object key.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	key, err := h.manager.RunNow(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "key": key})
}

// Restore downloads the named backup object, decrypts it and replaces the
// data set with its contents.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	payload, err := h.manager.Restore(r.Context(), req.Key)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	var snap store.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "backup is not a valid snapshot"})
		return
	}

	if err := h.adminStore.ImportReplace(&snap); err != nil {
		writeError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("data", "imported", "", nil))
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "restored", "key": req.Key})
}
