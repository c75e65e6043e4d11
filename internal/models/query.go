package models

import "time"

// QueryResult is the tabular output of one engine execution.
type QueryResult struct {
	Columns  []string        `json:"columns"`
	Values   [][]interface{} `json:"values"`
	RowCount int             `json:"rowCount"`
}

type QueryHistoryEntry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	RowCount  *int      `json:"rowCount,omitempty"`

	// ExecutionTime is in milliseconds.
	ExecutionTime *float64 `json:"executionTime,omitempty"`
}

type TableSchema struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

type QueryRequest struct {
	SQL string `json:"sql" validate:"required"`
}
