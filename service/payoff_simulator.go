package service

import (
	"math"

	"github.com/kayleers/clearledger-sub001/domain"
)

// PaymentSimulator projects balance under a single monthly payment. It is the
// hook SolveForTargetPayment searches over.
type PaymentSimulator func(balance, apr, monthlyPayment float64) domain.SimulationResult

// FixedSimulator adapts SimulateFixedPayment to a PaymentSimulator with the
// given month cap.
func FixedSimulator(maxMonths int) PaymentSimulator {
	return func(balance, apr, monthlyPayment float64) domain.SimulationResult {
		return SimulateFixedPayment(balance, apr, monthlyPayment, maxMonths, nil)
	}
}

// SimulateFixedPayment pays the same amount every month until the balance is
// gone or maxMonths have elapsed. maxMonths <= 0 selects DefaultFixedMaxMonths.
func SimulateFixedPayment(
	balance float64,
	apr float64,
	monthlyPayment float64,
	maxMonths int,
	futurePurchases []domain.FuturePurchase,
) domain.SimulationResult {
	if balance <= 0 {
		return paidOffResult()
	}
	if monthlyPayment <= 0 {
		return neverResult(balance)
	}
	if maxMonths <= 0 {
		maxMonths = DefaultFixedMaxMonths
	}

	return runSimulation(balance, apr, maxMonths, futurePurchases, func(int) float64 {
		return monthlyPayment
	})
}

// SimulateVariablePayment pays payments[i] in month i+1. Months past the end
// of the schedule, or whose entry is not positive, use the last non-zero entry.
// If that fallback is not positive either the run stops there: with no months
// simulated the result is never, otherwise horizon_reached at the months run.
// maxMonths <= 0 selects DefaultVariableMaxMonths.
func SimulateVariablePayment(
	balance float64,
	apr float64,
	payments []float64,
	maxMonths int,
	futurePurchases []domain.FuturePurchase,
) domain.SimulationResult {
	if balance <= 0 {
		return paidOffResult()
	}
	if maxMonths <= 0 {
		maxMonths = DefaultVariableMaxMonths
	}

	defaultPayment := DefaultVariablePayment(payments)

	return runSimulation(balance, apr, maxMonths, futurePurchases, func(month int) float64 {
		if month-1 < len(payments) && payments[month-1] > 0 {
			return payments[month-1]
		}
		return defaultPayment
	})
}

// DefaultVariablePayment returns the last non-zero entry of payments, or 0.
func DefaultVariablePayment(payments []float64) float64 {
	for i := len(payments) - 1; i >= 0; i-- {
		if payments[i] != 0 {
			return payments[i]
		}
	}
	return 0
}

// SimulateMinimumPayment pays min(minPayment, balance) each month for at most
// MinimumPaymentMaxMonths.
func SimulateMinimumPayment(balance, apr, minPayment float64) domain.SimulationResult {
	return SimulateFixedPayment(balance, apr, minPayment, MinimumPaymentMaxMonths, nil)
}

// CalculateMinimumPayment is the card-issuer style minimum: a percentage of the
// balance plus the month's interest, never below floor and never above the
// balance itself.
func CalculateMinimumPayment(balance, apr, percent, floor float64) float64 {
	if balance <= 0 {
		return 0
	}
	payment := balance*percent + balance*apr/12
	if payment < floor {
		payment = floor
	}
	if payment > balance {
		payment = balance
	}
	return roundTo2Decimals(payment)
}

// SolveForTargetPayment bisects on an extra amount paid on top of
// minimumPayment until simulate pays the balance off within
// TargetMonthsTolerance months of targetMonths. The first candidate inside the
// tolerance wins; the search does not keep converging. Extra = 0 is tried
// before any midpoint.
func SolveForTargetPayment(
	balance float64,
	apr float64,
	targetMonths int,
	minimumPayment float64,
	simulate PaymentSimulator,
) domain.TargetSolution {
	solution := domain.TargetSolution{
		Outcome:      domain.OutcomeUnsolvable,
		TargetMonths: targetMonths,
	}
	if balance <= 0 {
		solution.Outcome = domain.OutcomePaidOff
		return solution
	}
	if targetMonths <= 0 || simulate == nil {
		return solution
	}

	low, high := 0.0, balance/12
	extra := low

	for i := 0; i < TargetSearchIterations; i++ {
		if i > 0 {
			extra = (low + high) / 2
		}
		result := simulate(balance, apr, minimumPayment+extra)
		solution.Iterations = i + 1

		if result.PaidOff() && absInt(result.Months-targetMonths) <= TargetMonthsTolerance {
			solution.Outcome = domain.OutcomePaidOff
			solution.ExtraPayment = extra
			solution.MonthlyPayment = minimumPayment + extra
			solution.Months = result.Months
			return solution
		}

		if !result.PaidOff() || result.Months > targetMonths {
			low = extra
		} else {
			high = extra
		}
	}

	return solution
}

func runSimulation(
	balance float64,
	apr float64,
	maxMonths int,
	futurePurchases []domain.FuturePurchase,
	paymentFor func(month int) float64,
) domain.SimulationResult {
	monthlyRate := apr / 12
	purchases := purchasesByMonth(futurePurchases)

	breakdown := make([]domain.MonthRecord, 0, min(maxMonths, 64))
	totalInterest := 0.0
	totalPaid := 0.0
	stalled := false

	for month := 1; balance > 0 && month <= maxMonths; month++ {
		payment := paymentFor(month)
		if payment <= 0 {
			stalled = true
			break
		}

		balanceBefore := balance
		purchase := purchases[month]
		balance += purchase

		interest := balance * monthlyRate
		balance += interest
		totalInterest += interest

		actualPayment := math.Min(payment, balance)
		// Negative when interest exceeds the payment: the balance grows.
		principal := actualPayment - interest
		balance -= actualPayment
		totalPaid += actualPayment

		if balance < DebtBalanceTolerance {
			balance = 0
		}

		breakdown = append(breakdown, domain.MonthRecord{
			Month:         month,
			Payment:       roundTo2Decimals(actualPayment),
			Interest:      roundTo2Decimals(interest),
			Principal:     roundTo2Decimals(principal),
			BalanceBefore: roundTo2Decimals(balanceBefore),
			BalanceAfter:  roundTo2Decimals(balance),
			Purchase:      roundTo2Decimals(purchase),
		})
	}

	result := domain.SimulationResult{
		Months:        len(breakdown),
		TotalInterest: roundTo2Decimals(totalInterest),
		TotalPaid:     roundTo2Decimals(totalPaid),
		EndingBalance: roundTo2Decimals(balance),
		Breakdown:     breakdown,
	}

	// A schedule that stops after some months still produced a real schedule;
	// only a run with no months at all is never paid off.
	switch {
	case balance == 0:
		result.Outcome = domain.OutcomePaidOff
	case stalled && len(breakdown) == 0:
		return neverResult(balance)
	default:
		result.Outcome = domain.OutcomeHorizonReached
	}

	return result
}

func purchasesByMonth(purchases []domain.FuturePurchase) map[int]float64 {
	byMonth := make(map[int]float64, len(purchases))
	for _, p := range purchases {
		byMonth[p.Month] += p.Amount
	}
	return byMonth
}

func paidOffResult() domain.SimulationResult {
	return domain.SimulationResult{
		Outcome:   domain.OutcomePaidOff,
		Breakdown: []domain.MonthRecord{},
	}
}

func neverResult(balance float64) domain.SimulationResult {
	return domain.SimulationResult{
		Outcome:       domain.OutcomeNever,
		EndingBalance: roundTo2Decimals(balance),
		Breakdown:     []domain.MonthRecord{},
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
