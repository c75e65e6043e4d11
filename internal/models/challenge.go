package models

type Challenge struct {
	UnitID      int    `json:"unit_id"`
	ChallengeID int    `json:"challenge_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type ChallengeStats struct {
	TotalAttempts   int     `json:"total_attempts"`
	SuccessRate     float64 `json:"success_rate"`
	AverageAttempts float64 `json:"average_attempts"`
	CompletedBy     int     `json:"completed_by"`
}

type ChallengeDetail struct {
	Challenge
	SampleSolution *string         `json:"sample_solution,omitempty"`
	Stats          *ChallengeStats `json:"stats,omitempty"`
}

type Unit struct {
	UnitID     int         `json:"unit_id"`
	Title      string      `json:"title"`
	Challenges []Challenge `json:"challenges"`
}

type HintAccessRequest struct {
	UnitID      int `json:"unit_id" validate:"required,min=1"`
	ChallengeID int `json:"challenge_id" validate:"required,min=1"`
	HintLevel   int `json:"hint_level" validate:"required,min=1,max=3"`
}

type HintAccessResponse struct {
	ID          int    `json:"id"`
	UnitID      int    `json:"unit_id"`
	ChallengeID int    `json:"challenge_id"`
	HintLevel   int    `json:"hint_level"`
	AccessedAt  string `json:"accessed_at"`
}
