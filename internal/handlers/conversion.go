package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Converter runs the conversion pipeline. Implemented by
// service.ConversionService.
type Converter interface {
	Convert(ctx context.Context, conversionID, userID string) error
}

type ConversionHandler struct {
	converter Converter
}

func NewConversionHandler(converter Converter) *ConversionHandler {
	return &ConversionHandler{converter: converter}
}

type convertRequest struct {
	ConversionID string `json:"conversionId"`
	UserID       string `json:"userId"`
}

type convertResponse struct {
	Success      bool   `json:"success"`
	ConversionID string `json:"conversionId,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Convert handles POST requests that drive one conversion job end to end.
// Every pipeline failure converges to the same 500 shape; only a body that
// cannot be parsed short-circuits before the job store is touched.
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var request convertRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if request.ConversionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "conversionId is required"})
		return
	}

	if err := h.converter.Convert(r.Context(), request.ConversionID, request.UserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, convertResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{Success: true, ConversionID: request.ConversionID})
}

// Preflight answers OPTIONS with 204. The CORS headers themselves are set by
// the cors middleware running in passthrough mode.
func (h *ConversionHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Named("conversion_handler").Errorw("failed to encode response", "error", err)
	}
}
