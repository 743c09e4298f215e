package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// listResponse wraps a store view. Persisted is false when the change
// applied in memory but could not be written to storage.
type listResponse[T any] struct {
	Items     []T    `json:"items"`
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeList renders the result of a store operation. Validation errors are
// the caller's fault; storage errors are reported but the request succeeds.
func writeList[T any](w http.ResponseWriter, log logger.Logger, status int, items []T, err error) {
	if err != nil && !domain.IsStorage(err) {
		writeStoreError(w, log, err)
		return
	}

	resp := listResponse[T]{Items: items, Persisted: err == nil}
	if err != nil {
		resp.Warning = "Changes could not be saved and will be lost on reload."
	}
	if resp.Items == nil {
		resp.Items = []T{}
	}
	writeJSON(w, status, resp)
}

func writeStoreError(w http.ResponseWriter, log logger.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, confirm.ErrInvalidToken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error("request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
