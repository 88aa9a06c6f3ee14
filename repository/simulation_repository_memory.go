package repository

import (
	"context"
	"sync"

	"github.com/kayleers/clearledger-sub001/domain"
)

// SimulationRepositoryMemory is an in-memory implementation of SimulationRepository.
type SimulationRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.SimulationRecord
}

// NewSimulationRepositoryMemory creates a new in-memory simulation repository.
func NewSimulationRepositoryMemory() *SimulationRepositoryMemory {
	return &SimulationRepositoryMemory{
		data: []domain.SimulationRecord{},
	}
}

// Save stores the record in memory.
func (r *SimulationRepositoryMemory) Save(_ context.Context, record domain.SimulationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, record)
	return nil
}

// List returns up to limit records, newest first.
func (r *SimulationRepositoryMemory) List(_ context.Context, limit int) ([]domain.SimulationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SimulationRecord, 0, min(limit, len(r.data)))
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}
