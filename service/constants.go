package service

const (
	MaxLoanAmount        = 1_000_000_000.0
	MaxBalance           = 1_000_000_000.0
	MaxAPR               = 10.0 // 1000% as a decimal fraction
	MaxTermMonths        = 600  // 50 years
	MinTermMonths        = 1
	MaxDebtAmount        = 100_000_000.0
	MaxDebtsPerRequest   = 50
	MaxDebtPayoffMonths  = 600
	MaxPurchasesPerPlan  = 600
	DebtBalanceTolerance = 0.01 // balances below this count as paid

	// Simulation horizons
	DefaultFixedMaxMonths    = 360
	DefaultVariableMaxMonths = 600
	MinimumPaymentMaxMonths  = 600

	// Target payment search
	TargetSearchIterations = 50
	TargetMonthsTolerance  = 1

	// Range of target months evaluated by the recommender (10 years)
	MaxTargetRangeMonths = 120
)
