package model

import "time"

// RunStatus represents the current state of an enrichment batch run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run represents one recorded enrichment batch.
type Run struct {
	ID        string     `json:"id"`
	InputPath string     `json:"input_path"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a batch run.
type RunResult struct {
	URLsTotal   int    `json:"urls_total"`
	Enriched    int    `json:"enriched"`
	NoMatch     int    `json:"no_match"`
	InvalidURL  int    `json:"invalid_url"`
	CreditsUsed int    `json:"credits_used"`
	OutputPath  string `json:"output_path,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Contact is a persisted per-row enrichment outcome tied to a run.
type Contact struct {
	ID          string       `json:"id"`
	RunID       string       `json:"run_id"`
	LinkedInURL string       `json:"linkedin_url"`
	Status      RowStatus    `json:"status"`
	PersonID    string       `json:"person_id,omitempty"`
	Record      PersonRecord `json:"record"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Tally accumulates per-status row counts for a RunResult.
func (r *RunResult) Tally(status RowStatus) {
	switch status {
	case RowStatusEnriched:
		r.Enriched++
	case RowStatusNoMatch:
		r.NoMatch++
	case RowStatusInvalidURL:
		r.InvalidURL++
	}
}
