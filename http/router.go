package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Payoff               *PayoffHandler
	Loan                 *LoanHandler
	DebtPlan             *DebtPlanHandler
	TargetRecommendation *TargetRecommendationHandler
}

// NewRouter builds the API router. limiter may be nil to disable rate limiting.
func NewRouter(h Handlers, limiter *RateLimiter, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(log))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth(log))

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(RateLimitMiddleware(limiter, log))
		}

		r.Route("/payoff", func(r chi.Router) {
			r.Post("/simulate", h.Payoff.Simulate)
			r.Post("/target", h.Payoff.SolveTarget)
			r.Post("/report", h.Payoff.Report)
			r.Post("/recommend-target", h.TargetRecommendation.RecommendTarget)
		})

		r.Route("/loan", func(r chi.Router) {
			r.Post("/calculate", h.Loan.CalculateLoan)
			r.Post("/schedule", h.Loan.LoanSchedule)
		})

		r.Post("/debt/plan", h.DebtPlan.CalculateDebtPlan)
		r.Get("/simulations", h.Payoff.History)
	})

	return r
}

func handleHealth(log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func loggingMiddleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("HTTP request")
		})
	}
}
