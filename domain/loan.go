package domain

type LoanInput struct {
	Amount     float64 `json:"amount"`
	APR        float64 `json:"apr"`
	TermMonths int     `json:"term_months"`
}

type LoanResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}
