package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/kayleers/clearledger-sub001/domain"
)

const (
	DefaultAIModel = "gemini-2.0-flash"
	aiTimeout      = 30 * time.Second
)

// Explainer turns calculated plans into a short readable summary.
type Explainer interface {
	ExplainDebtPlan(ctx context.Context, input domain.DebtPlanInput, result domain.DebtPlanResult) string
	ExplainTarget(
		ctx context.Context,
		input domain.TargetRecommendationInput,
		top domain.TargetRecommendation,
		alternatives []domain.TargetRecommendation,
	) string
}

// AIService explains plans with a Gemini model. Without an API key, or when
// the model call fails, it falls back to a fixed template.
type AIService struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

func NewAIService(ctx context.Context, apiKey, model string, log zerolog.Logger) *AIService {
	if model == "" {
		model = DefaultAIModel
	}
	s := &AIService{
		model: model,
		log:   log.With().Str("service", "ai").Logger(),
	}
	if apiKey == "" {
		return s
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to create genai client, using template explanations")
		return s
	}
	s.client = client
	return s
}

// Enabled reports whether explanations come from the model.
func (s *AIService) Enabled() bool {
	return s.client != nil
}

// ExplainTarget explains why the top-ranked payoff target fits the preference.
func (s *AIService) ExplainTarget(
	ctx context.Context,
	input domain.TargetRecommendationInput,
	top domain.TargetRecommendation,
	alternatives []domain.TargetRecommendation,
) string {
	if !s.Enabled() {
		return fallbackTargetExplanation(top, input.Preference)
	}

	var alt strings.Builder
	for _, a := range alternatives {
		fmt.Fprintf(&alt, "- %d months: $%.2f/month, $%.2f interest\n", a.TargetMonths, a.MonthlyPayment, a.TotalInterest)
	}

	prompt := fmt.Sprintf(`Explain a credit card payoff recommendation to the card holder.

BALANCE: $%.2f at %.2f%% APR, current minimum payment $%.2f
RECOMMENDED: pay $%.2f per month ($%.2f above the minimum), paid off in %d months (%.1f years), $%.2f total interest
PREFERENCE: %s

ALTERNATIVES:
%s
Write 3-4 plain sentences on why this target suits the preference and what the trade-off between monthly payment and total interest is. Use the numbers above.`,
		input.Balance, input.APR*100, input.MinimumPayment,
		top.MonthlyPayment, top.ExtraPayment, top.Months, float64(top.Months)/12.0, top.TotalInterest,
		preferenceDescription(input.Preference),
		alt.String())

	explanation, err := s.generate(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to generate target explanation")
		return fallbackTargetExplanation(top, input.Preference)
	}
	return explanation
}

// ExplainDebtPlan explains a snowball or avalanche plan.
func (s *AIService) ExplainDebtPlan(
	ctx context.Context,
	input domain.DebtPlanInput,
	result domain.DebtPlanResult,
) string {
	if !s.Enabled() {
		return fallbackDebtExplanation(result)
	}

	var debts strings.Builder
	for _, d := range input.Debts {
		fmt.Fprintf(&debts, "- %s: $%.2f at %.2f%% APR, minimum $%.2f\n", d.Name, d.Amount, d.APR*100, d.MinimumPayment)
	}

	comparison := ""
	if c := result.Comparison; c != nil {
		comparison = fmt.Sprintf(`
COMPARISON:
- Snowball: $%.2f interest, %d months
- Avalanche: $%.2f interest, %d months
- Saved with the recommended plan: $%.2f and %d months`,
			c.Snowball.TotalInterestPaid, c.Snowball.MonthsToPayoff,
			c.Avalanche.TotalInterestPaid, c.Avalanche.MonthsToPayoff,
			c.Savings.InterestSaved, c.Savings.MonthsSaved)
	}

	prompt := fmt.Sprintf(`Explain a debt payoff plan to the person who owes the debts.

STRATEGY: %s. %s
MONTHLY BUDGET: $%.2f
TOTAL DEBT: $%.2f
TOTAL INTEREST: $%.2f
MONTHS TO PAY OFF: %d (%.1f years)

DEBTS:
%s%s
Write 4-5 plain, encouraging sentences that explain how the strategy works, quote the numbers, and give one practical tip for sticking to the plan.`,
		strategyName(result.Strategy), strategyTip(result.Strategy),
		input.AvailableMonthlyPayment,
		result.TotalDebt, result.TotalInterestPaid,
		result.MonthsToPayoff, float64(result.MonthsToPayoff)/12.0,
		debts.String(), comparison)

	explanation, err := s.generate(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Str("strategy", result.Strategy).Msg("Failed to generate debt plan explanation")
		return fallbackDebtExplanation(result)
	}
	return explanation
}

func (s *AIService) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

func preferenceDescription(preference string) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return "minimize total interest"
	case PreferenceMinimizePayment:
		return "minimize the monthly payment"
	case PreferenceBalanced:
		return "balance monthly payment against total interest"
	}
	return preference
}

func strategyName(strategy string) string {
	if strategy == StrategyAvalanche {
		return "Avalanche"
	}
	return "Snowball"
}

func strategyTip(strategy string) string {
	if strategy == StrategyAvalanche {
		return "Paying the highest-rate debt first keeps total interest as low as possible."
	}
	return "Clearing the smallest debt first gives quick wins that keep you motivated."
}

func fallbackTargetExplanation(top domain.TargetRecommendation, preference string) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return fmt.Sprintf("Paying $%.2f a month clears the balance in %d months and keeps total interest down to $%.2f. It asks more of your monthly budget in exchange for the lowest cost.",
			top.MonthlyPayment, top.Months, top.TotalInterest)
	case PreferenceMinimizePayment:
		return fmt.Sprintf("Paying $%.2f a month keeps your budget flexible and still clears the balance in %d months, with $%.2f in total interest.",
			top.MonthlyPayment, top.Months, top.TotalInterest)
	default:
		return fmt.Sprintf("Paying $%.2f a month balances your monthly budget against total cost: the balance is gone in %d months with $%.2f in total interest.",
			top.MonthlyPayment, top.Months, top.TotalInterest)
	}
}

func fallbackDebtExplanation(result domain.DebtPlanResult) string {
	if !result.PaidOff {
		return fmt.Sprintf("With the %s strategy your debts are not fully paid within %d months. Raising the monthly budget shortens the plan.",
			strategyName(result.Strategy), result.MonthsToPayoff)
	}
	return fmt.Sprintf("With the %s strategy you pay $%.2f in interest and are debt free in %d months (%.1f years). %s",
		strategyName(result.Strategy), result.TotalInterestPaid, result.MonthsToPayoff,
		float64(result.MonthsToPayoff)/12.0, strategyTip(result.Strategy))
}
