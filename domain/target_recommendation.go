package domain

type TargetRecommendationInput struct {
	Balance           float64 `json:"balance"`
	APR               float64 `json:"apr"`
	MinimumPayment    float64 `json:"minimum_payment"`
	MinTargetMonths   int     `json:"min_target_months"`
	MaxTargetMonths   int     `json:"max_target_months"`
	MaxMonthlyPayment float64 `json:"max_monthly_payment"`
	Preference        string  `json:"preference"` // "minimize_interest", "minimize_payment", "balanced"
}

type TargetRecommendation struct {
	TargetMonths   int     `json:"target_months"`
	Months         int     `json:"months"`
	MonthlyPayment float64 `json:"monthly_payment"`
	ExtraPayment   float64 `json:"extra_payment"`
	TotalInterest  float64 `json:"total_interest"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TargetRecommendationResult struct {
	RecommendedMonths int                    `json:"recommended_months"`
	Recommendations   []TargetRecommendation `json:"recommendations"`
}
