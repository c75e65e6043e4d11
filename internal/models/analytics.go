package models

type ClassAnalytics struct {
	TotalStudents      int                `json:"total_students"`
	ActiveStudents     int                `json:"active_students"`
	AverageCompletion  float64            `json:"average_completion"`
	AveragePoints      float64            `json:"average_points"`
	ChallengeStats     []ChallengeSummary `json:"challenge_stats"`
	StrugglingStudents []StudentSummary   `json:"struggling_students"`
	TopPerformers      []StudentSummary   `json:"top_performers"`
}

type ChallengeSummary struct {
	UnitID      int     `json:"unit_id"`
	ChallengeID int     `json:"challenge_id"`
	Title       string  `json:"title"`
	SuccessRate float64 `json:"success_rate"`
	AvgAttempts float64 `json:"avg_attempts"`
}

type StudentSummary struct {
	UserID              int    `json:"user_id"`
	Name                string `json:"name"`
	TotalPoints         int    `json:"total_points"`
	ChallengesCompleted int    `json:"challenges_completed"`
}

type WeeklyReport struct {
	WeekStart         string             `json:"week_start"`
	WeekEnd           string             `json:"week_end"`
	NewStudents       int                `json:"new_students"`
	ActiveStudents    int                `json:"active_students"`
	ChallengesSolved  int                `json:"challenges_solved"`
	TotalAttempts     int                `json:"total_attempts"`
	HintsAccessed     int                `json:"hints_accessed"`
	TopStudents       []StudentSummary   `json:"top_students"`
	HardestChallenges []ChallengeSummary `json:"hardest_challenges"`
}
