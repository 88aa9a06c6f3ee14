package service

import (
	"context"
	"errors"
	"sync"

	"github.com/kayleers/clearledger-sub001/domain"
)

type MockSimulationRepository struct {
	mu         sync.Mutex
	Saved      []domain.SimulationRecord
	ForceError bool
}

func (m *MockSimulationRepository) Save(_ context.Context, record domain.SimulationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError {
		return errors.New("save error")
	}
	m.Saved = append(m.Saved, record)
	return nil
}

func (m *MockSimulationRepository) List(_ context.Context, limit int) ([]domain.SimulationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError {
		return nil, errors.New("list error")
	}
	out := []domain.SimulationRecord{}
	for i := len(m.Saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Saved[i])
	}
	return out, nil
}

func (m *MockSimulationRepository) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

type MockExplainer struct {
	DebtCalls   int
	TargetCalls int
}

func (m *MockExplainer) ExplainDebtPlan(context.Context, domain.DebtPlanInput, domain.DebtPlanResult) string {
	m.DebtCalls++
	return "debt explanation"
}

func (m *MockExplainer) ExplainTarget(
	context.Context,
	domain.TargetRecommendationInput,
	domain.TargetRecommendation,
	[]domain.TargetRecommendation,
) string {
	m.TargetCalls++
	return "target explanation"
}
