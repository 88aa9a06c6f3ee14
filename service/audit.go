package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/repository"
)

// auditor writes a SimulationRecord for every calculation served. Failures
// are logged and never surface to the caller.
type auditor struct {
	repo repository.SimulationRepository
	log  zerolog.Logger
}

func (a auditor) record(
	ctx context.Context,
	kind string,
	request any,
	outcome domain.Outcome,
	months int,
	totalInterest float64,
) {
	if a.repo == nil {
		return
	}

	payload, err := json.Marshal(request)
	if err != nil {
		a.log.Warn().Err(err).Str("kind", kind).Msg("Failed to encode request for audit log")
		return
	}

	rec := domain.SimulationRecord{
		ID:            uuid.NewString(),
		Kind:          kind,
		Request:       string(payload),
		Outcome:       outcome,
		Months:        months,
		TotalInterest: totalInterest,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.repo.Save(ctx, rec); err != nil {
		a.log.Warn().Err(err).Str("kind", kind).Msg("Failed to save calculation")
	}
}
