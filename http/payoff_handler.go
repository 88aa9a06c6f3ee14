package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/report"
	"github.com/kayleers/clearledger-sub001/service"
)

type PayoffHandler struct {
	service *service.PayoffService
	log     zerolog.Logger
}

func NewPayoffHandler(service *service.PayoffService, log zerolog.Logger) *PayoffHandler {
	return &PayoffHandler{
		service: service,
		log:     log.With().Str("handler", "payoff").Logger(),
	}
}

// Simulate handles POST /api/payoff/simulate
func (h *PayoffHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req domain.PayoffRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result, err := h.service.Simulate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}

// SolveTarget handles POST /api/payoff/target
func (h *PayoffHandler) SolveTarget(w http.ResponseWriter, r *http.Request) {
	var req domain.TargetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	solution, err := h.service.SolveTarget(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, solution)
}

// Report handles POST /api/payoff/report and answers with a PDF document.
func (h *PayoffHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req domain.PayoffRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result, err := h.service.Simulate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	data, err := report.GeneratePayoffPDF(req, result)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payoff-plan.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	if _, err := w.Write(data); err != nil {
		h.log.Warn().Err(err).Msg("Failed to write report")
	}
}

// History handles GET /api/simulations?limit=N
func (h *PayoffHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"simulations": records,
		"count":       len(records),
	})
}
