package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kayleers/clearledger-sub001/domain"
)

func TestAIService_DisabledWithoutKey(t *testing.T) {
	svc := NewAIService(context.Background(), "", "", zerolog.Nop())

	assert.False(t, svc.Enabled())
	assert.Equal(t, DefaultAIModel, svc.model)
}

func TestAIService_FallbackTargetExplanation(t *testing.T) {
	svc := NewAIService(context.Background(), "", "", zerolog.Nop())
	top := domain.TargetRecommendation{TargetMonths: 24, Months: 24, MonthlyPayment: 254.33, TotalInterest: 1103.92}

	interest := svc.ExplainTarget(context.Background(), domain.TargetRecommendationInput{Preference: PreferenceMinimizeInterest}, top, nil)
	payment := svc.ExplainTarget(context.Background(), domain.TargetRecommendationInput{Preference: PreferenceMinimizePayment}, top, nil)
	balanced := svc.ExplainTarget(context.Background(), domain.TargetRecommendationInput{Preference: PreferenceBalanced}, top, nil)

	for _, text := range []string{interest, payment, balanced} {
		assert.Contains(t, text, "$254.33")
		assert.Contains(t, text, "24 months")
		assert.Contains(t, text, "$1103.92")
	}
	assert.NotEqual(t, interest, payment)
	assert.NotEqual(t, payment, balanced)
}

func TestAIService_FallbackDebtExplanation(t *testing.T) {
	svc := NewAIService(context.Background(), "", "", zerolog.Nop())

	paid := svc.ExplainDebtPlan(context.Background(), domain.DebtPlanInput{}, domain.DebtPlanResult{
		Strategy:          StrategyAvalanche,
		TotalInterestPaid: 150.5,
		MonthsToPayoff:    18,
		PaidOff:           true,
	})
	assert.Contains(t, paid, "Avalanche")
	assert.Contains(t, paid, "$150.50")
	assert.Contains(t, paid, "18 months")

	stuck := svc.ExplainDebtPlan(context.Background(), domain.DebtPlanInput{}, domain.DebtPlanResult{
		Strategy:       StrategySnowball,
		MonthsToPayoff: MaxDebtPayoffMonths,
	})
	assert.Contains(t, stuck, "not fully paid")
}
