package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/service"
)

type LoanHandler struct {
	service *service.LoanService
	log     zerolog.Logger
}

func NewLoanHandler(service *service.LoanService, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{
		service: service,
		log:     log.With().Str("handler", "loan").Logger(),
	}
}

// CalculateLoan handles POST /api/loan/calculate
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}

// LoanSchedule handles POST /api/loan/schedule
func (h *LoanHandler) LoanSchedule(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result, err := h.service.LoanSchedule(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
