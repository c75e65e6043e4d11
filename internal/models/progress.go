package models

import "time"

type ProgressSummary struct {
	UserID              int     `json:"user_id"`
	TotalPoints         int     `json:"total_points"`
	ChallengesCompleted int     `json:"challenges_completed"`
	TotalChallenges     int     `json:"total_challenges"`
	CompletionRate      float64 `json:"completion_percentage"`
}

type ProgressDetail struct {
	UnitID      int        `json:"unit_id"`
	ChallengeID int        `json:"challenge_id"`
	Points      int        `json:"points_earned"`
	Attempts    int        `json:"attempts"`
	SuccessRate float64    `json:"success_rate"`
	HintsUsed   int        `json:"hints_used"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ProgressResponse struct {
	Summary ProgressSummary  `json:"summary"`
	Details []ProgressDetail `json:"details"`
}
