package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/service"
)

type DebtPlanHandler struct {
	service *service.DebtPlanService
	log     zerolog.Logger
}

func NewDebtPlanHandler(service *service.DebtPlanService, log zerolog.Logger) *DebtPlanHandler {
	return &DebtPlanHandler{
		service: service,
		log:     log.With().Str("handler", "debt_plan").Logger(),
	}
}

// CalculateDebtPlan handles POST /api/debt/plan
func (h *DebtPlanHandler) CalculateDebtPlan(w http.ResponseWriter, r *http.Request) {
	var input domain.DebtPlanInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result, err := h.service.CalculateDebtPlan(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
