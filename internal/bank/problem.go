package bank

import "time"

// StoredProblem is one accepted problem in the bank. Records are
// append-only: created through the orchestrator's accept path and never
// mutated or deleted afterwards.
type StoredProblem struct {
	ID              string    `json:"id"`
	ProblemText     string    `json:"problem_text"`
	SolutionText    string    `json:"solution_text"`
	Difficulty      string    `json:"difficulty"`
	Topic           string    `json:"topic"`
	CreatedAt       time.Time `json:"created_at"`
	Validated       bool      `json:"validated"`
	ValidationScore float64   `json:"validation_score"`
	SourceProblemID string    `json:"source_problem_id"`
	DiagramCode     string    `json:"diagram_code,omitempty"`
}

// collection is the on-disk document: the full problem list plus a
// last-updated stamp, rewritten in full on every mutation.
type collection struct {
	Problems    []StoredProblem `json:"problems"`
	LastUpdated time.Time       `json:"last_updated"`
}
