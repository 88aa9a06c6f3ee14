package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/repository"
)

// roundTo2Decimals rounds half away from zero to cents.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

type LoanService struct {
	audit auditor
	log   zerolog.Logger
}

// NewLoanService creates a new LoanService with the given repository.
func NewLoanService(repo repository.SimulationRepository, log zerolog.Logger) *LoanService {
	l := log.With().Str("service", "loan").Logger()
	return &LoanService{
		audit: auditor{repo: repo, log: l},
		log:   l,
	}
}

// CalculateLoan computes the level monthly payment of an installment loan.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {
	if err := validateLoan(input); err != nil {
		return domain.LoanResult{}, err
	}

	payment := AnnuityPayment(input.Amount, input.APR, input.TermMonths)
	total := payment * float64(input.TermMonths)
	interest := total - input.Amount

	result := domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(payment),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(interest),
	}

	s.audit.record(ctx, "loan", input, domain.OutcomePaidOff, input.TermMonths, result.TotalInterest)

	return result, nil
}

// LoanSchedule amortizes the loan month by month at its annuity payment.
func (s *LoanService) LoanSchedule(
	ctx context.Context,
	input domain.LoanInput,
) (domain.SimulationResult, error) {
	if err := validateLoan(input); err != nil {
		return domain.SimulationResult{}, err
	}

	payment := AnnuityPayment(input.Amount, input.APR, input.TermMonths)
	// One spare month absorbs float drift in the final payment.
	result := SimulateFixedPayment(input.Amount, input.APR, payment, input.TermMonths+1, nil)

	if !result.PaidOff() {
		s.log.Warn().
			Float64("amount", input.Amount).
			Int("term_months", input.TermMonths).
			Msg("Loan schedule did not reach zero within term")
	}

	s.audit.record(ctx, "loan_schedule", input, result.Outcome, result.Months, result.TotalInterest)

	return result, nil
}

// AnnuityPayment is the level payment that amortizes amount over n months.
func AnnuityPayment(amount, apr float64, termMonths int) float64 {
	n := float64(termMonths)
	if apr == 0 {
		return amount / n
	}
	monthlyRate := apr / 12
	return amount * (monthlyRate / (1 - math.Pow(1+monthlyRate, -n)))
}

func validateLoan(input domain.LoanInput) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}
	if input.Amount > MaxLoanAmount {
		return fmt.Errorf("%w: amount exceeds the maximum of $%.2f", ErrValidation, MaxLoanAmount)
	}
	if input.APR < 0 {
		return ErrInvalidRate
	}
	if input.APR > MaxAPR {
		return fmt.Errorf("%w: apr exceeds the maximum of %.2f", ErrValidation, MaxAPR)
	}
	if input.TermMonths < MinTermMonths {
		return ErrInvalidTerm
	}
	if input.TermMonths > MaxTermMonths {
		return fmt.Errorf("%w: term exceeds the maximum of %d months", ErrValidation, MaxTermMonths)
	}
	return nil
}
