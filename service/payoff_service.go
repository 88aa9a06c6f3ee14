package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/repository"
)

const (
	DefaultCacheTTL  = 10 * time.Minute
	maxHistoryLimit  = 100
	cacheKeyPrefix   = "payoff:"
	maxPaymentsInput = MaxTermMonths
)

// PayoffService validates payoff requests, runs the simulator and keeps the
// cache and audit log up to date.
type PayoffService struct {
	repo     repository.SimulationRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	audit    auditor
	log      zerolog.Logger
}

func NewPayoffService(
	repo repository.SimulationRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *PayoffService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	l := log.With().Str("service", "payoff").Logger()
	return &PayoffService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		audit:    auditor{repo: repo, log: l},
		log:      l,
	}
}

// Simulate projects a single balance under the requested strategy.
func (s *PayoffService) Simulate(
	ctx context.Context,
	req domain.PayoffRequest,
) (domain.SimulationResult, error) {
	if err := validatePayoffRequest(req); err != nil {
		return domain.SimulationResult{}, err
	}

	key, keyErr := cacheKey(req)
	if keyErr == nil {
		if result, ok := s.cached(ctx, key); ok {
			s.log.Debug().Str("key", key).Msg("Payoff cache hit")
			s.audit.record(ctx, "payoff_"+string(req.Strategy), req, result.Outcome, result.Months, result.TotalInterest)
			return result, nil
		}
	}

	result := s.run(req)

	s.log.Info().
		Str("strategy", string(req.Strategy)).
		Str("outcome", string(result.Outcome)).
		Int("months", result.Months).
		Float64("total_interest", result.TotalInterest).
		Msg("Payoff simulated")

	if keyErr == nil {
		s.store(ctx, key, result)
	}
	s.audit.record(ctx, "payoff_"+string(req.Strategy), req, result.Outcome, result.Months, result.TotalInterest)

	return result, nil
}

// SolveTarget finds the payment that pays the balance off in the target
// number of months.
func (s *PayoffService) SolveTarget(
	ctx context.Context,
	req domain.TargetRequest,
) (domain.TargetSolution, error) {
	if req.Balance < 0 {
		return domain.TargetSolution{}, ErrInvalidBalance
	}
	if req.APR < 0 || req.APR > MaxAPR {
		return domain.TargetSolution{}, ErrInvalidRate
	}
	if req.MinimumPayment < 0 {
		return domain.TargetSolution{}, ErrInvalidPayment
	}
	if req.TargetMonths < MinTermMonths || req.TargetMonths > MaxTermMonths {
		return domain.TargetSolution{}, ErrInvalidTarget
	}

	solution := SolveForTargetPayment(
		req.Balance, req.APR, req.TargetMonths, req.MinimumPayment, FixedSimulator(MaxTermMonths),
	)
	if !solution.Solved() {
		s.log.Info().
			Float64("balance", req.Balance).
			Int("target_months", req.TargetMonths).
			Msg("Target payoff is unsolvable")
	}

	s.audit.record(ctx, "target", req, solution.Outcome, solution.Months, 0)

	return solution, nil
}

// History returns the most recent calculations, newest first.
func (s *PayoffService) History(ctx context.Context, limit int) ([]domain.SimulationRecord, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if s.repo == nil {
		return []domain.SimulationRecord{}, nil
	}
	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return records, nil
}

func (s *PayoffService) run(req domain.PayoffRequest) domain.SimulationResult {
	switch req.Strategy {
	case domain.StrategyFixed:
		return SimulateFixedPayment(req.Balance, req.APR, req.MonthlyPayment, req.MaxMonths, req.FuturePurchases)

	case domain.StrategyMinimum:
		if len(req.FuturePurchases) == 0 && req.MaxMonths == 0 {
			return SimulateMinimumPayment(req.Balance, req.APR, req.MinimumPayment)
		}
		return SimulateFixedPayment(req.Balance, req.APR, req.MinimumPayment, horizon(req.MaxMonths), req.FuturePurchases)

	case domain.StrategyVariable:
		return SimulateVariablePayment(req.Balance, req.APR, req.Payments, req.MaxMonths, req.FuturePurchases)

	case domain.StrategyTarget:
		maxMonths := horizon(req.MaxMonths)
		simulate := func(balance, apr, payment float64) domain.SimulationResult {
			return SimulateFixedPayment(balance, apr, payment, maxMonths, req.FuturePurchases)
		}
		solution := SolveForTargetPayment(req.Balance, req.APR, req.TargetMonths, req.MinimumPayment, simulate)
		if !solution.Solved() {
			return domain.SimulationResult{
				Outcome:       domain.OutcomeUnsolvable,
				EndingBalance: roundTo2Decimals(req.Balance),
				Breakdown:     []domain.MonthRecord{},
			}
		}
		return simulate(req.Balance, req.APR, solution.MonthlyPayment)
	}

	// Unreachable after validation.
	return domain.SimulationResult{Outcome: domain.OutcomeNever, Breakdown: []domain.MonthRecord{}}
}

func horizon(maxMonths int) int {
	if maxMonths <= 0 {
		return MinimumPaymentMaxMonths
	}
	return maxMonths
}

func (s *PayoffService) cached(ctx context.Context, key string) (domain.SimulationResult, bool) {
	if s.cache == nil {
		return domain.SimulationResult{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.SimulationResult{}, false
	}

	var result domain.SimulationResult
	if err := msgpack.Unmarshal(raw, &result); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return domain.SimulationResult{}, false
	}
	if result.Breakdown == nil {
		result.Breakdown = []domain.MonthRecord{}
	}
	return result, true
}

func (s *PayoffService) store(ctx context.Context, key string, result domain.SimulationResult) {
	if s.cache == nil {
		return
	}
	raw, err := msgpack.Marshal(result)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode payoff result for cache")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to cache payoff result")
	}
}

// cacheKey hashes the canonical JSON form of the request.
func cacheKey(req domain.PayoffRequest) (string, error) {
	req.Name = ""
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return cacheKeyPrefix + strconv.FormatUint(xxhash.Sum64(payload), 16), nil
}

func validatePayoffRequest(req domain.PayoffRequest) error {
	if req.Balance < 0 {
		return ErrInvalidBalance
	}
	if req.Balance > MaxBalance {
		return fmt.Errorf("%w: balance exceeds the maximum of $%.2f", ErrValidation, MaxBalance)
	}
	if req.APR < 0 {
		return ErrInvalidRate
	}
	if req.APR > MaxAPR {
		return fmt.Errorf("%w: apr exceeds the maximum of %.2f", ErrValidation, MaxAPR)
	}
	if req.MaxMonths < 0 || req.MaxMonths > MaxTermMonths {
		return ErrInvalidHorizon
	}
	if len(req.FuturePurchases) > MaxPurchasesPerPlan {
		return fmt.Errorf("%w: at most %d future purchases", ErrValidation, MaxPurchasesPerPlan)
	}
	for _, p := range req.FuturePurchases {
		if p.Month < 1 || p.Amount < 0 {
			return ErrInvalidPurchase
		}
	}

	switch req.Strategy {
	case domain.StrategyFixed, domain.StrategyMinimum:
	case domain.StrategyVariable:
		if len(req.Payments) > maxPaymentsInput {
			return fmt.Errorf("%w: at most %d scheduled payments", ErrValidation, maxPaymentsInput)
		}
		for i, p := range req.Payments {
			if p < 0 {
				return fmt.Errorf("%w: scheduled payment %d is negative", ErrInvalidPayment, i+1)
			}
		}
	case domain.StrategyTarget:
		if req.TargetMonths < MinTermMonths || req.TargetMonths > MaxTermMonths {
			return ErrInvalidTarget
		}
		if req.MinimumPayment < 0 {
			return ErrInvalidPayment
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, req.Strategy)
	}
	return nil
}
