package domain

import "fmt"

// Strategy selects how the monthly payment of a payoff simulation is chosen.
type Strategy string

const (
	StrategyFixed    Strategy = "fixed"
	StrategyMinimum  Strategy = "minimum"
	StrategyVariable Strategy = "variable"
	StrategyTarget   Strategy = "target"
)

// Outcome tags how a simulation or a target search ended.
type Outcome string

const (
	// OutcomePaidOff means the balance reached zero.
	OutcomePaidOff Outcome = "paid_off"
	// OutcomeHorizonReached means the month cap was hit with a balance left.
	OutcomeHorizonReached Outcome = "horizon_reached"
	// OutcomeNever means the payment can never amortize the balance.
	OutcomeNever Outcome = "never"
	// OutcomeUnsolvable means no payment satisfying the target was found.
	OutcomeUnsolvable Outcome = "unsolvable"
)

// FuturePurchase is an extra charge added to the balance at the start of Month (1-based).
type FuturePurchase struct {
	Month       int     `json:"month"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// MonthRecord is one row of an amortization schedule.
type MonthRecord struct {
	Month         int     `json:"month"`
	Payment       float64 `json:"payment"`
	Interest      float64 `json:"interest"`
	Principal     float64 `json:"principal"`
	BalanceBefore float64 `json:"balance_before"` // opening balance, before the month's purchase and interest
	BalanceAfter  float64 `json:"balance_after"`
	Purchase      float64 `json:"purchase,omitempty"`
}

// SimulationResult is the outcome of projecting one balance month by month.
// Breakdown holds one record per simulated month and is empty, never nil,
// when no month ran.
type SimulationResult struct {
	Outcome       Outcome       `json:"outcome"`
	Months        int           `json:"months"`
	TotalInterest float64       `json:"total_interest"`
	TotalPaid     float64       `json:"total_paid"`
	EndingBalance float64       `json:"ending_balance"`
	Breakdown     []MonthRecord `json:"breakdown"`
}

// PaidOff reports whether the simulated balance reached zero.
func (r SimulationResult) PaidOff() bool {
	return r.Outcome == OutcomePaidOff
}

// MonthsLabel renders the payoff duration the way the app shows it.
func (r SimulationResult) MonthsLabel() string {
	switch r.Outcome {
	case OutcomeNever:
		return "Never"
	case OutcomeHorizonReached:
		return fmt.Sprintf("Not within %d months", r.Months)
	}
	return fmt.Sprintf("%d months", r.Months)
}

// TargetSolution is the result of searching for a payment that pays off a
// balance in a given number of months.
type TargetSolution struct {
	Outcome        Outcome `json:"outcome"`
	TargetMonths   int     `json:"target_months"`
	ExtraPayment   float64 `json:"extra_payment"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Months         int     `json:"months"`
	Iterations     int     `json:"iterations"`
}

// Solved reports whether a payment was found.
func (s TargetSolution) Solved() bool {
	return s.Outcome != OutcomeUnsolvable
}

// PayoffRequest describes a single-balance payoff simulation.
type PayoffRequest struct {
	Name            string           `json:"name,omitempty"`
	Balance         float64          `json:"balance"`
	APR             float64          `json:"apr"`
	Strategy        Strategy         `json:"strategy"`
	MonthlyPayment  float64          `json:"monthly_payment,omitempty"`
	MinimumPayment  float64          `json:"minimum_payment,omitempty"`
	Payments        []float64        `json:"payments,omitempty"`
	TargetMonths    int              `json:"target_months,omitempty"`
	MaxMonths       int              `json:"max_months,omitempty"`
	FuturePurchases []FuturePurchase `json:"future_purchases,omitempty"`
}

// TargetRequest asks for the payment that pays Balance off in TargetMonths.
type TargetRequest struct {
	Balance        float64 `json:"balance"`
	APR            float64 `json:"apr"`
	MinimumPayment float64 `json:"minimum_payment"`
	TargetMonths   int     `json:"target_months"`
}
