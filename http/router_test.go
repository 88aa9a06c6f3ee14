package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kayleers/clearledger-sub001/domain"
	"github.com/kayleers/clearledger-sub001/repository"
	"github.com/kayleers/clearledger-sub001/service"
)

func newTestRouter(t *testing.T, limiter *RateLimiter) http.Handler {
	t.Helper()
	log := zerolog.Nop()
	repo := repository.NewSimulationRepositoryMemory()
	cache := repository.NewMemoryCache()
	explainer := service.NewAIService(context.Background(), "", "", log)

	return NewRouter(Handlers{
		Payoff:               NewPayoffHandler(service.NewPayoffService(repo, cache, time.Minute, log), log),
		Loan:                 NewLoanHandler(service.NewLoanService(repo, log), log),
		DebtPlan:             NewDebtPlanHandler(service.NewDebtPlanService(explainer, repo, log), log),
		TargetRecommendation: NewTargetRecommendationHandler(service.NewTargetRecommendationService(explainer, repo, log), log),
	}, limiter, log)
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSimulateHandler_OK(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/payoff/simulate",
		`{"balance": 1200, "apr": 0.24, "strategy": "fixed", "monthly_payment": 120}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result domain.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.OutcomePaidOff, result.Outcome)
	require.NotEmpty(t, result.Breakdown)
	assert.Equal(t, 24.0, result.Breakdown[0].Interest)
	assert.Equal(t, 96.0, result.Breakdown[0].Principal)
	assert.Equal(t, 1104.0, result.Breakdown[0].BalanceAfter)
}

func TestSimulateHandler_NeverIsNotAnError(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/payoff/simulate",
		`{"balance": 500, "apr": 0.20, "strategy": "fixed", "monthly_payment": 0}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result domain.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.OutcomeNever, result.Outcome)
	assert.Empty(t, result.Breakdown)
}

func TestSimulateHandler_BadRequest(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"balance": `},
		{"negative balance", `{"balance": -5, "strategy": "fixed"}`},
		{"unknown strategy", `{"balance": 100, "strategy": "lottery"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/payoff/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSimulateHandler_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payoff/simulate", bytes.NewBufferString("balance=100"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestSimulateHandler_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payoff/simulate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSolveTargetHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/payoff/target",
		`{"balance": 3600, "apr": 0, "minimum_payment": 100, "target_months": 36}`)

	require.Equal(t, http.StatusOK, w.Code)
	var solution domain.TargetSolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &solution))
	assert.Equal(t, domain.OutcomePaidOff, solution.Outcome)
	assert.Equal(t, 0.0, solution.ExtraPayment)
	assert.Equal(t, 36, solution.Months)
}

func TestReportHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/payoff/report",
		`{"name": "Visa", "balance": 2500, "apr": 0.1999, "strategy": "fixed", "monthly_payment": 150}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payoff-plan.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestLoanHandlers(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/loan/calculate", `{"amount": 1200, "apr": 0, "term_months": 12}`)
	require.Equal(t, http.StatusOK, w.Code)
	var loan domain.LoanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
	assert.Equal(t, 100.0, loan.MonthlyPayment)

	w = postJSON(t, router, "/api/loan/schedule", `{"amount": 1200, "apr": 0, "term_months": 12}`)
	require.Equal(t, http.StatusOK, w.Code)
	var schedule domain.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schedule))
	assert.Equal(t, 12, schedule.Months)

	w = postJSON(t, router, "/api/loan/calculate", `{"amount": 0, "apr": 0, "term_months": 12}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebtPlanHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/debt/plan", `{
		"debts": [
			{"name": "Visa", "amount": 1000, "apr": 0.24, "minimum_payment": 50},
			{"name": "Store card", "amount": 500, "apr": 0.05, "minimum_payment": 25}
		],
		"available_monthly_payment": 200,
		"strategy": "compare"
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result domain.DebtPlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.PaidOff)
	assert.NotNil(t, result.Comparison)
	assert.NotEmpty(t, result.Explanation)
}

func TestRecommendTargetHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/payoff/recommend-target", `{
		"balance": 5000,
		"apr": 0.1999,
		"minimum_payment": 100,
		"min_target_months": 12,
		"max_target_months": 36,
		"max_monthly_payment": 600,
		"preference": "balanced"
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result domain.TargetRecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, result.Recommendations[0].TargetMonths, result.RecommendedMonths)
}

func TestHistoryHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	postJSON(t, router, "/api/payoff/simulate", `{"balance": 1000, "apr": 0, "strategy": "fixed", "monthly_payment": 100}`)
	postJSON(t, router, "/api/loan/calculate", `{"amount": 1200, "apr": 0, "term_months": 12}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simulations?limit=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Simulations []domain.SimulationRecord `json:"simulations"`
		Count       int                       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Simulations, 1)
	assert.Equal(t, "loan", body.Simulations[0].Kind)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simulations?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	router := newTestRouter(t, limiter)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simulations", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simulations", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Health sits outside /api and is never limited.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
