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
	StrategySnowball  = "snowball"
	StrategyAvalanche = "avalanche"
	StrategyCompare   = "compare"
)

type DebtPlanService struct {
	explainer Explainer
	audit     auditor
	log       zerolog.Logger
}

func NewDebtPlanService(
	explainer Explainer,
	repo repository.SimulationRepository,
	log zerolog.Logger,
) *DebtPlanService {
	l := log.With().Str("service", "debt_plan").Logger()
	return &DebtPlanService{
		explainer: explainer,
		audit:     auditor{repo: repo, log: l},
		log:       l,
	}
}

// CalculateDebtPlan pays several debts from one monthly budget using the
// snowball or avalanche ordering, or both when asked to compare.
func (s *DebtPlanService) CalculateDebtPlan(
	ctx context.Context,
	input domain.DebtPlanInput,
) (domain.DebtPlanResult, error) {
	if err := validateDebtPlan(input); err != nil {
		return domain.DebtPlanResult{}, err
	}

	var result domain.DebtPlanResult

	if input.Strategy == StrategyCompare {
		snowball := s.calculateStrategy(input, StrategySnowball)
		avalanche := s.calculateStrategy(input, StrategyAvalanche)

		if avalanche.TotalInterestPaid < snowball.TotalInterestPaid {
			result = avalanche
		} else {
			result = snowball
		}

		result.Comparison = &domain.Comparison{
			Snowball: domain.StrategyResult{
				TotalInterestPaid: snowball.TotalInterestPaid,
				MonthsToPayoff:    snowball.MonthsToPayoff,
			},
			Avalanche: domain.StrategyResult{
				TotalInterestPaid: avalanche.TotalInterestPaid,
				MonthsToPayoff:    avalanche.MonthsToPayoff,
			},
			Savings: domain.Savings{
				InterestSaved: roundTo2Decimals(
					math.Max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid),
				),
				MonthsSaved: snowball.MonthsToPayoff - avalanche.MonthsToPayoff,
			},
		}
	} else {
		result = s.calculateStrategy(input, input.Strategy)
	}

	if s.explainer != nil {
		result.Explanation = s.explainer.ExplainDebtPlan(ctx, input, result)
	}

	outcome := domain.OutcomePaidOff
	if !result.PaidOff {
		outcome = domain.OutcomeHorizonReached
	}
	s.audit.record(ctx, "debt_plan", input, outcome, result.MonthsToPayoff, result.TotalInterestPaid)

	return result, nil
}

func validateDebtPlan(input domain.DebtPlanInput) error {
	if len(input.Debts) == 0 {
		return ErrNoDebts
	}
	if len(input.Debts) > MaxDebtsPerRequest {
		return fmt.Errorf("%w: at most %d debts per plan", ErrValidation, MaxDebtsPerRequest)
	}
	if input.AvailableMonthlyPayment <= 0 {
		return ErrInvalidPayment
	}

	switch input.Strategy {
	case StrategySnowball, StrategyAvalanche, StrategyCompare:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, input.Strategy)
	}

	names := make(map[string]bool, len(input.Debts))
	totalMinimumPayments := 0.0
	for _, debt := range input.Debts {
		if debt.Name == "" {
			return ErrEmptyDebtName
		}
		if names[debt.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateDebtName, debt.Name)
		}
		names[debt.Name] = true

		if debt.Amount <= 0 {
			return fmt.Errorf("%w (%s)", ErrInvalidAmount, debt.Name)
		}
		if debt.Amount > MaxDebtAmount {
			return fmt.Errorf("%w: %s exceeds the maximum debt of $%.2f", ErrValidation, debt.Name, MaxDebtAmount)
		}
		if debt.APR < 0 {
			return fmt.Errorf("%w (%s)", ErrInvalidRate, debt.Name)
		}
		if debt.APR > MaxAPR {
			return fmt.Errorf("%w: %s apr exceeds the maximum of %.2f", ErrValidation, debt.Name, MaxAPR)
		}
		if debt.MinimumPayment <= 0 {
			return fmt.Errorf("%w (%s)", ErrInvalidPayment, debt.Name)
		}
		monthlyInterest := debt.Amount * debt.APR / 12
		if debt.MinimumPayment < monthlyInterest {
			return fmt.Errorf(
				"%w: minimum payment of %s ($%.2f) is below its monthly interest ($%.2f)",
				ErrValidation, debt.Name, debt.MinimumPayment, monthlyInterest,
			)
		}
		totalMinimumPayments += debt.MinimumPayment
	}

	if totalMinimumPayments > input.AvailableMonthlyPayment {
		return ErrBudgetTooLow
	}
	return nil
}

// orderDebts sorts a copy of debts into payoff priority. Ties keep input order.
func orderDebts(debts []domain.Debt, strategy string) []domain.Debt {
	ordered := make([]domain.Debt, len(debts))
	copy(ordered, debts)

	if strategy == StrategySnowball {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Amount < ordered[j].Amount
		})
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].APR > ordered[j].APR
		})
	}
	return ordered
}

func (s *DebtPlanService) calculateStrategy(
	input domain.DebtPlanInput,
	strategy string,
) domain.DebtPlanResult {
	debts := orderDebts(input.Debts, strategy)

	balances := make(map[string]float64, len(debts))
	for _, debt := range debts {
		balances[debt.Name] = debt.Amount
	}

	monthlyPlan := []domain.MonthlyPlan{}
	totalInterestPaid := 0.0
	month := 0
	allPaid := false

	for month < MaxDebtPayoffMonths {
		month++
		available := input.AvailableMonthlyPayment
		payments := []domain.DebtPayment{}
		totalPaid := 0.0

		// Interest accrues on every open balance before anything is paid.
		interest := make(map[string]float64, len(debts))
		for _, debt := range debts {
			if balances[debt.Name] <= 0 {
				continue
			}
			accrued := balances[debt.Name] * debt.APR / 12
			interest[debt.Name] = accrued
			totalInterestPaid += accrued
		}

		// Minimums first, each covering at least its interest.
		for _, debt := range debts {
			if balances[debt.Name] <= 0 {
				continue
			}

			accrued := interest[debt.Name]
			payment := math.Max(debt.MinimumPayment, accrued)
			payment = math.Min(payment, balances[debt.Name]+accrued)
			payment = math.Min(payment, available)
			if payment <= 0 {
				continue
			}

			balances[debt.Name] -= math.Max(0, payment-accrued)
			if balances[debt.Name] < DebtBalanceTolerance {
				balances[debt.Name] = 0
			}

			payments = append(payments, domain.DebtPayment{
				DebtName:         debt.Name,
				Payment:          roundTo2Decimals(payment),
				Interest:         roundTo2Decimals(accrued),
				RemainingBalance: roundTo2Decimals(balances[debt.Name]),
			})

			available -= payment
			totalPaid += payment
		}

		// Surplus goes to the first open debt in priority order, rolling over
		// to the next one when a debt is cleared.
		for _, debt := range debts {
			if available <= DebtBalanceTolerance {
				break
			}
			if balances[debt.Name] <= 0 {
				continue
			}

			extra := math.Min(available, balances[debt.Name])
			balances[debt.Name] -= extra
			if balances[debt.Name] < DebtBalanceTolerance {
				balances[debt.Name] = 0
			}

			for i := range payments {
				if payments[i].DebtName == debt.Name {
					payments[i].Payment = roundTo2Decimals(payments[i].Payment + extra)
					payments[i].RemainingBalance = roundTo2Decimals(balances[debt.Name])
					break
				}
			}

			available -= extra
			totalPaid += extra
		}

		monthlyPlan = append(monthlyPlan, domain.MonthlyPlan{
			Month:     month,
			Payments:  payments,
			TotalPaid: roundTo2Decimals(totalPaid),
		})

		allPaid = true
		for _, debt := range debts {
			if balances[debt.Name] > DebtBalanceTolerance {
				allPaid = false
				break
			}
		}
		if allPaid {
			break
		}
	}

	if !allPaid {
		s.log.Warn().
			Str("strategy", strategy).
			Int("max_months", MaxDebtPayoffMonths).
			Msg("Debt plan reached the month limit before payoff")
	}

	totalDebt := 0.0
	for _, debt := range input.Debts {
		totalDebt += debt.Amount
	}

	return domain.DebtPlanResult{
		Strategy:          strategy,
		TotalDebt:         roundTo2Decimals(totalDebt),
		TotalInterestPaid: roundTo2Decimals(totalInterestPaid),
		MonthsToPayoff:    month,
		PaidOff:           allPaid,
		MonthlyPlan:       monthlyPlan,
	}
}
