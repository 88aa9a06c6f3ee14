package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/repository"
)

const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"

	maxAlternatives = 3
)

type TargetRecommendationService struct {
	explainer Explainer
	audit     auditor
	log       zerolog.Logger
}

func NewTargetRecommendationService(
	explainer Explainer,
	repo repository.SimulationRepository,
	log zerolog.Logger,
) *TargetRecommendationService {
	l := log.With().Str("service", "target_recommendation").Logger()
	return &TargetRecommendationService{
		explainer: explainer,
		audit:     auditor{repo: repo, log: l},
		log:       l,
	}
}

// RecommendTarget solves every payoff target in the requested range and ranks
// the affordable ones by the caller's preference.
func (s *TargetRecommendationService) RecommendTarget(
	ctx context.Context,
	input domain.TargetRecommendationInput,
) (domain.TargetRecommendationResult, error) {
	if err := validateTargetRecommendation(input); err != nil {
		return domain.TargetRecommendationResult{}, err
	}

	simulate := FixedSimulator(MaxTermMonths)
	recommendations := []domain.TargetRecommendation{}
	seen := make(map[int]bool)

	for target := input.MinTargetMonths; target <= input.MaxTargetMonths; target++ {
		solution := SolveForTargetPayment(input.Balance, input.APR, target, input.MinimumPayment, simulate)
		if !solution.Solved() {
			s.log.Debug().Int("target_months", target).Msg("No payment found for target")
			continue
		}
		if solution.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}
		// Neighbouring targets often solve to the same schedule.
		if seen[solution.Months] {
			continue
		}
		seen[solution.Months] = true

		result := simulate(input.Balance, input.APR, solution.MonthlyPayment)

		recommendations = append(recommendations, domain.TargetRecommendation{
			TargetMonths:   target,
			Months:         result.Months,
			MonthlyPayment: roundTo2Decimals(solution.MonthlyPayment),
			ExtraPayment:   roundTo2Decimals(solution.ExtraPayment),
			TotalInterest:  result.TotalInterest,
			Reason:         preferenceReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TargetRecommendationResult{}, ErrNoCandidates
	}

	scoreRecommendations(recommendations, input)

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	top := recommendations[0]
	alternatives := recommendations[1:min(len(recommendations), maxAlternatives+1)]
	if s.explainer != nil {
		recommendations[0].Reason = s.explainer.ExplainTarget(ctx, input, top, alternatives)
	}

	s.audit.record(ctx, "target_recommendation", input, domain.OutcomePaidOff, top.Months, top.TotalInterest)

	return domain.TargetRecommendationResult{
		RecommendedMonths: top.TargetMonths,
		Recommendations:   recommendations,
	}, nil
}

func validateTargetRecommendation(input domain.TargetRecommendationInput) error {
	if input.Balance <= 0 {
		return ErrInvalidAmount
	}
	if input.Balance > MaxBalance {
		return fmt.Errorf("%w: balance exceeds the maximum of $%.2f", ErrValidation, MaxBalance)
	}
	if input.APR < 0 || input.APR > MaxAPR {
		return ErrInvalidRate
	}
	if input.MinimumPayment < 0 {
		return ErrInvalidPayment
	}
	if input.MinTargetMonths < MinTermMonths || input.MaxTargetMonths < MinTermMonths {
		return ErrInvalidTarget
	}
	if input.MinTargetMonths > input.MaxTargetMonths {
		return fmt.Errorf("%w: minimum target exceeds maximum target", ErrValidation)
	}
	if input.MaxTargetMonths > MaxTermMonths {
		return fmt.Errorf("%w: maximum target exceeds %d months", ErrInvalidTarget, MaxTermMonths)
	}
	if input.MaxTargetMonths-input.MinTargetMonths > MaxTargetRangeMonths {
		return fmt.Errorf("%w: target range exceeds %d months", ErrInvalidTarget, MaxTargetRangeMonths)
	}
	if input.MaxMonthlyPayment <= 0 {
		return ErrInvalidPayment
	}

	switch input.Preference {
	case PreferenceMinimizeInterest, PreferenceMinimizePayment, PreferenceBalanced:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPreference, input.Preference)
}

// scoreRecommendations rates each candidate 0-10 against the spread of the
// whole candidate set.
func scoreRecommendations(recs []domain.TargetRecommendation, input domain.TargetRecommendationInput) {
	minInterest, maxInterest := math.Inf(1), math.Inf(-1)
	minPayment, maxPayment := math.Inf(1), math.Inf(-1)
	for _, r := range recs {
		minInterest = math.Min(minInterest, r.TotalInterest)
		maxInterest = math.Max(maxInterest, r.TotalInterest)
		minPayment = math.Min(minPayment, r.MonthlyPayment)
		maxPayment = math.Max(maxPayment, r.MonthlyPayment)
	}
	termRange := float64(input.MaxTargetMonths - input.MinTargetMonths)

	for i := range recs {
		interestScore := normalizedScore(recs[i].TotalInterest, minInterest, maxInterest)
		paymentScore := normalizedScore(recs[i].MonthlyPayment, minPayment, maxPayment)
		termScore := 10.0
		if termRange > 0 {
			termScore = 10.0 * (1.0 - float64(recs[i].TargetMonths-input.MinTargetMonths)/termRange)
		}

		var score float64
		switch input.Preference {
		case PreferenceMinimizeInterest:
			score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
		case PreferenceMinimizePayment:
			score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
		default:
			score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
		}
		recs[i].Score = roundTo2Decimals(score)
	}
}

// normalizedScore maps value to 10 at low and 0 at high.
func normalizedScore(value, low, high float64) float64 {
	if high <= low {
		return 10.0
	}
	return 10.0 * (1.0 - (value-low)/(high-low))
}

func preferenceReason(preference string) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return "Target chosen to minimize total interest"
	case PreferenceMinimizePayment:
		return "Target chosen to minimize the monthly payment"
	case PreferenceBalanced:
		return "Best balance between monthly payment and total interest"
	}
	return "Recommendation based on the provided parameters"
}
