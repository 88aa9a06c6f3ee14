package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/service"
)

type TargetRecommendationHandler struct {
	service *service.TargetRecommendationService
	log     zerolog.Logger
}

func NewTargetRecommendationHandler(
	service *service.TargetRecommendationService,
	log zerolog.Logger,
) *TargetRecommendationHandler {
	return &TargetRecommendationHandler{
		service: service,
		log:     log.With().Str("handler", "target_recommendation").Logger(),
	}
}

// RecommendTarget handles POST /api/payoff/recommend-target
func (h *TargetRecommendationHandler) RecommendTarget(w http.ResponseWriter, r *http.Request) {
	var input domain.TargetRecommendationInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result, err := h.service.RecommendTarget(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
