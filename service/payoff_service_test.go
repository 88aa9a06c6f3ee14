package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/repository"
)

func newTestPayoffService(repo repository.SimulationRepository) (*PayoffService, *repository.MemoryCache) {
	cache := repository.NewMemoryCache()
	return NewPayoffService(repo, cache, time.Minute, zerolog.Nop()), cache
}

func TestPayoffService_SimulateFixed(t *testing.T) {
	repo := &MockSimulationRepository{}
	svc, _ := newTestPayoffService(repo)
	req := domain.PayoffRequest{
		Balance:        1200,
		APR:            0.24,
		Strategy:       domain.StrategyFixed,
		MonthlyPayment: 120,
	}

	result, err := svc.Simulate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, SimulateFixedPayment(1200, 0.24, 120, 0, nil), result)
	require.Equal(t, 1, repo.SaveCount())
	assert.Equal(t, "payoff_fixed", repo.Saved[0].Kind)
	assert.Equal(t, domain.OutcomePaidOff, repo.Saved[0].Outcome)
	assert.NotEmpty(t, repo.Saved[0].ID)
}

func TestPayoffService_CachesResults(t *testing.T) {
	repo := &MockSimulationRepository{}
	svc, cache := newTestPayoffService(repo)
	req := domain.PayoffRequest{
		Name:           "first",
		Balance:        5000,
		APR:            0.1999,
		Strategy:       domain.StrategyFixed,
		MonthlyPayment: 250,
	}

	first, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	// The name is a label only and does not change the cache key.
	req.Name = "second"
	second, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	// Cached answers are still calculations served and land in the history.
	require.Equal(t, 2, repo.SaveCount())
	assert.Equal(t, repo.Saved[0].Outcome, repo.Saved[1].Outcome)
	assert.Equal(t, repo.Saved[0].Months, repo.Saved[1].Months)
	assert.Contains(t, repo.Saved[1].Request, `"name":"second"`)
}

func TestPayoffService_CachedNeverKeepsEmptyBreakdown(t *testing.T) {
	svc, _ := newTestPayoffService(nil)
	req := domain.PayoffRequest{
		Balance:  500,
		APR:      0.20,
		Strategy: domain.StrategyFixed,
	}

	_, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)
	result, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeNever, result.Outcome)
	assert.NotNil(t, result.Breakdown)
	assert.Empty(t, result.Breakdown)
}

func TestPayoffService_Strategies(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.PayoffRequest
		outcome domain.Outcome
		months  int
	}{
		{
			name:    "minimum",
			req:     domain.PayoffRequest{Balance: 1000, Strategy: domain.StrategyMinimum, MinimumPayment: 100},
			outcome: domain.OutcomePaidOff,
			months:  10,
		},
		{
			name:    "minimum stuck under interest",
			req:     domain.PayoffRequest{Balance: 10000, APR: 0.24, Strategy: domain.StrategyMinimum, MinimumPayment: 150},
			outcome: domain.OutcomeHorizonReached,
			months:  MinimumPaymentMaxMonths,
		},
		{
			name:    "variable",
			req:     domain.PayoffRequest{Balance: 2000, Strategy: domain.StrategyVariable, Payments: []float64{200, 200, 0, 0}},
			outcome: domain.OutcomePaidOff,
			months:  10,
		},
		{
			name: "target",
			req: domain.PayoffRequest{
				Balance:        3600,
				Strategy:       domain.StrategyTarget,
				MinimumPayment: 100,
				TargetMonths:   36,
			},
			outcome: domain.OutcomePaidOff,
			months:  36,
		},
		{
			name: "target out of reach",
			req: domain.PayoffRequest{
				Balance:        12000,
				Strategy:       domain.StrategyTarget,
				MinimumPayment: 100,
				TargetMonths:   3,
			},
			outcome: domain.OutcomeUnsolvable,
			months:  0,
		},
		{
			name:    "fixed without payment",
			req:     domain.PayoffRequest{Balance: 500, APR: 0.2, Strategy: domain.StrategyFixed},
			outcome: domain.OutcomeNever,
			months:  0,
		},
		{
			name:    "fixed with horizon",
			req:     domain.PayoffRequest{Balance: 10000, APR: 0.24, Strategy: domain.StrategyFixed, MonthlyPayment: 100, MaxMonths: 24},
			outcome: domain.OutcomeHorizonReached,
			months:  24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestPayoffService(nil)

			result, err := svc.Simulate(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.months, result.Months)
			assert.Len(t, result.Breakdown, tt.months)
		})
	}
}

func TestPayoffService_TargetIncludesPurchases(t *testing.T) {
	svc, _ := newTestPayoffService(nil)

	result, err := svc.Simulate(context.Background(), domain.PayoffRequest{
		Balance:         3000,
		APR:             0.18,
		Strategy:        domain.StrategyTarget,
		MinimumPayment:  50,
		TargetMonths:    18,
		FuturePurchases: []domain.FuturePurchase{{Month: 6, Amount: 800}},
	})

	require.NoError(t, err)
	require.Equal(t, domain.OutcomePaidOff, result.Outcome)
	assert.InDelta(t, 18, result.Months, TargetMonthsTolerance)
	assert.Equal(t, 800.0, result.Breakdown[5].Purchase)
}

func TestPayoffService_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.PayoffRequest
		want error
	}{
		{"negative balance", domain.PayoffRequest{Balance: -1, Strategy: domain.StrategyFixed}, ErrInvalidBalance},
		{"negative rate", domain.PayoffRequest{Balance: 100, APR: -0.1, Strategy: domain.StrategyFixed}, ErrInvalidRate},
		{"rate too high", domain.PayoffRequest{Balance: 100, APR: 11, Strategy: domain.StrategyFixed}, ErrValidation},
		{"unknown strategy", domain.PayoffRequest{Balance: 100, Strategy: "snowball"}, ErrInvalidStrategy},
		{"horizon too long", domain.PayoffRequest{Balance: 100, Strategy: domain.StrategyFixed, MaxMonths: 601}, ErrInvalidHorizon},
		{
			"purchase in month zero",
			domain.PayoffRequest{
				Balance:         100,
				Strategy:        domain.StrategyFixed,
				FuturePurchases: []domain.FuturePurchase{{Month: 0, Amount: 10}},
			},
			ErrInvalidPurchase,
		},
		{"target without months", domain.PayoffRequest{Balance: 100, Strategy: domain.StrategyTarget}, ErrInvalidTarget},
		{
			"negative scheduled payment",
			domain.PayoffRequest{Balance: 1000, APR: 0.12, Strategy: domain.StrategyVariable, Payments: []float64{100, -5}},
			ErrInvalidPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockSimulationRepository{}
			svc, cache := newTestPayoffService(repo)

			_, err := svc.Simulate(context.Background(), tt.req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
			assert.Zero(t, repo.SaveCount())
			assert.Zero(t, cache.Len())
		})
	}
}

func TestPayoffService_RepositoryErrorIsNotFatal(t *testing.T) {
	svc, _ := newTestPayoffService(&MockSimulationRepository{ForceError: true})

	result, err := svc.Simulate(context.Background(), domain.PayoffRequest{
		Balance:        1000,
		Strategy:       domain.StrategyFixed,
		MonthlyPayment: 100,
	})

	require.NoError(t, err)
	assert.Equal(t, 10, result.Months)
}

func TestPayoffService_SolveTarget(t *testing.T) {
	repo := &MockSimulationRepository{}
	svc, _ := newTestPayoffService(repo)

	solution, err := svc.SolveTarget(context.Background(), domain.TargetRequest{
		Balance:        3600,
		MinimumPayment: 100,
		TargetMonths:   36,
	})

	require.NoError(t, err)
	assert.True(t, solution.Solved())
	assert.Equal(t, 0.0, solution.ExtraPayment)
	assert.Equal(t, 36, solution.Months)
	require.Equal(t, 1, repo.SaveCount())
	assert.Equal(t, "target", repo.Saved[0].Kind)

	_, err = svc.SolveTarget(context.Background(), domain.TargetRequest{Balance: 3600, TargetMonths: 0})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestPayoffService_History(t *testing.T) {
	repo := repository.NewSimulationRepositoryMemory()
	svc, _ := newTestPayoffService(repo)
	ctx := context.Background()

	_, err := svc.Simulate(ctx, domain.PayoffRequest{Balance: 1000, Strategy: domain.StrategyFixed, MonthlyPayment: 100})
	require.NoError(t, err)
	_, err = svc.SolveTarget(ctx, domain.TargetRequest{Balance: 1200, TargetMonths: 12})
	require.NoError(t, err)

	records, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "target", records[0].Kind)
	assert.Equal(t, "payoff_fixed", records[1].Kind)
	assert.Contains(t, records[1].Request, `"monthly_payment":100`)

	limited, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestPayoffService_HistoryWithoutRepository(t *testing.T) {
	svc, _ := newTestPayoffService(nil)

	records, err := svc.History(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPayoffService_HistoryError(t *testing.T) {
	svc, _ := newTestPayoffService(&MockSimulationRepository{ForceError: true})

	_, err := svc.History(context.Background(), 5)

	require.Error(t, err)
	assert.False(t, IsValidation(err))
}
