package domain

type Debt struct {
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	APR            float64 `json:"apr"`
	MinimumPayment float64 `json:"minimum_payment"`
}

type DebtPlanInput struct {
	Debts                   []Debt  `json:"debts"`
	AvailableMonthlyPayment float64 `json:"available_monthly_payment"`
	Strategy                string  `json:"strategy"` // "snowball", "avalanche", "compare"
}

type DebtPayment struct {
	DebtName         string  `json:"debt_name"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type MonthlyPlan struct {
	Month     int           `json:"month"`
	Payments  []DebtPayment `json:"payments"`
	TotalPaid float64       `json:"total_paid"`
}

type StrategyResult struct {
	TotalInterestPaid float64 `json:"total_interest_paid"`
	MonthsToPayoff    int     `json:"months_to_payoff"`
}

type Savings struct {
	InterestSaved float64 `json:"interest_saved"`
	MonthsSaved   int     `json:"months_saved"`
}

type Comparison struct {
	Snowball  StrategyResult `json:"snowball"`
	Avalanche StrategyResult `json:"avalanche"`
	Savings   Savings        `json:"savings"`
}

type DebtPlanResult struct {
	Strategy          string        `json:"strategy"`
	TotalDebt         float64       `json:"total_debt"`
	TotalInterestPaid float64       `json:"total_interest_paid"`
	MonthsToPayoff    int           `json:"months_to_payoff"`
	PaidOff           bool          `json:"paid_off"`
	MonthlyPlan       []MonthlyPlan `json:"monthly_plan"`
	Comparison        *Comparison   `json:"comparison,omitempty"`
	Explanation       string        `json:"explanation,omitempty"`
}
