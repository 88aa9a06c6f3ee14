package domain

import "time"

// SimulationRecord is the audit entry kept for every calculation served.
type SimulationRecord struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Request       string    `json:"request"`
	Outcome       Outcome   `json:"outcome"`
	Months        int       `json:"months"`
	TotalInterest float64   `json:"total_interest"`
	CreatedAt     time.Time `json:"created_at"`
}
