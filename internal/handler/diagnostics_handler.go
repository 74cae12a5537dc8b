package handler

import (
	"context"
	"net/http"

	"github.com/portfolio/backend/internal/model"
)

// Diagnoser builds a diagnostics snapshot. It must not fail.
type Diagnoser interface {
	Diagnose(ctx context.Context) model.DiagnosticsSnapshot
}

// DiagnosticsHandler serves GET /test.
type DiagnosticsHandler struct {
	diagnoser Diagnoser
}

// NewDiagnosticsHandler creates a DiagnosticsHandler backed by diagnoser.
func NewDiagnosticsHandler(diagnoser Diagnoser) *DiagnosticsHandler {
	return &DiagnosticsHandler{diagnoser: diagnoser}
}

// Get handles GET /test and always responds 200.
func (h *DiagnosticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.diagnoser.Diagnose(r.Context()))
}
