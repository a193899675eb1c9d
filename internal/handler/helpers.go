package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dougiefresh49/gift-tracker/internal/model"
	"github.com/dougiefresh49/gift-tracker/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps store and validation errors onto HTTP statuses: bad input
// is 400, a missing entity is 404, and everything else is 500. Partial batch
// failures report 500 with the aggregated message so the client knows some
// writes may have landed.
func writeError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	var pbe *store.PartialBatchError
	if errors.As(err, &pbe) {
		slog.Error("partial batch failure", "op", pbe.Op, "error", pbe.Err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": pbe.Error()})
		return
	}
	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
