package repository

import (
	"context"

	"github.com/kayleers/clearledger-sub001/domain"
)

// SimulationRepository keeps the audit log of calculations served.
type SimulationRepository interface {
	Save(ctx context.Context, record domain.SimulationRecord) error
	List(ctx context.Context, limit int) ([]domain.SimulationRecord, error)
}
