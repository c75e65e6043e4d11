package models

import "time"

type Dataset struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	RowCount       int       `json:"row_count"`
	ChallengeCount int       `json:"challenge_count"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type DatasetRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	SchemaSQL   string `json:"schema_sql,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type CustomChallenge struct {
	ID            int             `json:"id"`
	DatasetID     int             `json:"dataset_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Difficulty    string          `json:"difficulty"`
	Points        int             `json:"points"`
	ExpectedQuery string          `json:"expected_query,omitempty"`
	IsActive      bool            `json:"is_active"`
	Stats         *ChallengeStats `json:"stats,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CustomChallengeRequest struct {
	DatasetID     int    `json:"dataset_id" validate:"required,min=1"`
	Title         string `json:"title" validate:"required,min=3,max=200"`
	Description   string `json:"description" validate:"required,max=2000"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Points        int    `json:"points" validate:"required,min=1,max=1000"`
	ExpectedQuery string `json:"expected_query" validate:"required"`
	IsActive      *bool  `json:"is_active,omitempty"`
}
