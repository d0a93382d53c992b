package curator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/abhisek/mathbank/internal/llm"
)

const passingVerdict = `---
VALIDATION RESULT: PASS
SCORE: 85

MATHEMATICAL_ACCURACY: 35
SOLUTION_CORRECTNESS: 26
CLARITY_COMPLETENESS: 16
EDUCATIONAL_VALUE: 8

FEEDBACK:
Well-posed problem with a correct and clearly explained solution.

ISSUES:
None

RECOMMENDATION: ACCEPT
---`

func TestValidate_PassingVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: passingVerdict})
	step := NewValidationStep(mock, DefaultConfig(), discardLogger())

	v, err := step.Validate(context.Background(), "What is 2+3?", "2+3 = 5.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Passed {
		t.Error("expected Passed")
	}
	if v.Score != 85 {
		t.Errorf("Score = %d, want 85", v.Score)
	}
	if v.SubScores.MathematicalAccuracy != 35 {
		t.Errorf("MathematicalAccuracy = %d, want 35", v.SubScores.MathematicalAccuracy)
	}
	if v.Recommendation != RecommendationAccept {
		t.Errorf("Recommendation = %s, want ACCEPT", v.Recommendation)
	}
	if !v.Accepted() {
		t.Error("passing ACCEPT verdict must be accepted")
	}
	if v.Issues != "None" {
		t.Errorf("Issues = %q, want None", v.Issues)
	}
}

func TestValidate_SubScoresClamped(t *testing.T) {
	raw := `VALIDATION RESULT: PASS
SCORE: 150
MATHEMATICAL_ACCURACY: 55
SOLUTION_CORRECTNESS: -3
CLARITY_COMPLETENESS: 20
EDUCATIONAL_VALUE: 10
RECOMMENDATION: ACCEPT`

	mock := llm.NewMockProvider(llm.MockResponse{Text: raw})
	step := NewValidationStep(mock, DefaultConfig(), discardLogger())

	v, err := step.Validate(context.Background(), "p", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Score != 100 {
		t.Errorf("Score = %d, want clamped 100", v.Score)
	}
	if v.SubScores.MathematicalAccuracy != 40 {
		t.Errorf("MathematicalAccuracy = %d, want clamped 40", v.SubScores.MathematicalAccuracy)
	}
	if v.SubScores.SolutionCorrectness != 0 {
		t.Errorf("SolutionCorrectness = %d, want clamped 0", v.SubScores.SolutionCorrectness)
	}
}

func TestValidate_MalformedResponseDegradesToReject(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "I refuse to grade this."})
	step := NewValidationStep(mock, DefaultConfig(), discardLogger())

	v, err := step.Validate(context.Background(), "p", "s")
	if err != nil {
		t.Fatalf("malformed rubric output is not an error, got %v", err)
	}
	if v.Passed {
		t.Error("default verdict must not pass")
	}
	if v.Score != 0 {
		t.Errorf("Score = %d, want 0", v.Score)
	}
	if v.Recommendation != RecommendationReject {
		t.Errorf("Recommendation = %s, want REJECT", v.Recommendation)
	}
	if v.Accepted() {
		t.Error("default verdict must not be accepted")
	}
}

func TestValidate_EmptyInputNotSent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: passingVerdict})
	step := NewValidationStep(mock, DefaultConfig(), discardLogger())

	if _, err := step.Validate(context.Background(), "", "s"); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for empty problem, got %v", err)
	}
	if _, err := step.Validate(context.Background(), "p", "  "); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for empty solution, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected 0 service calls, got %d", mock.CallCount())
	}
}

func TestVerdict_ConjunctiveAcceptance(t *testing.T) {
	tests := []struct {
		name   string
		passed bool
		rec    Recommendation
		want   bool
	}{
		{"pass accept", true, RecommendationAccept, true},
		{"pass revise", true, RecommendationRevise, false},
		{"pass reject", true, RecommendationReject, false},
		{"fail accept", false, RecommendationAccept, false},
		{"fail reject", false, RecommendationReject, false},
	}
	for _, tt := range tests {
		v := &Verdict{Passed: tt.passed, Score: 95, Recommendation: tt.rec}
		if got := v.Accepted(); got != tt.want {
			t.Errorf("%s: Accepted() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidate_CaseInsensitiveRecommendation(t *testing.T) {
	raw := "VALIDATION RESULT: pass\nSCORE: 80\nRECOMMENDATION: accept"
	mock := llm.NewMockProvider(llm.MockResponse{Text: raw})
	step := NewValidationStep(mock, DefaultConfig(), discardLogger())

	v, err := step.Validate(context.Background(), "p", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Passed || v.Recommendation != RecommendationAccept {
		t.Errorf("lowercase markers not normalized: %+v", v)
	}
}

func TestValidate_ScoreSumDisagreementLogged(t *testing.T) {
	// Total 90 against a sub-score sum of 35 is far outside tolerance.
	// The total stays authoritative; the disagreement is surfaced as a
	// warning, not an error.
	raw := `VALIDATION RESULT: PASS
SCORE: 90
MATHEMATICAL_ACCURACY: 10
SOLUTION_CORRECTNESS: 10
CLARITY_COMPLETENESS: 10
EDUCATIONAL_VALUE: 5
RECOMMENDATION: ACCEPT`

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mock := llm.NewMockProvider(llm.MockResponse{Text: raw})
	step := NewValidationStep(mock, DefaultConfig(), logger)

	v, err := step.Validate(context.Background(), "p", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Score != 90 {
		t.Errorf("Score = %d, want the reported total 90", v.Score)
	}

	logged := buf.String()
	if !strings.Contains(logged, "verdict score disagrees with sub-score sum") {
		t.Errorf("disagreement warning not logged, got: %s", logged)
	}
	if !strings.Contains(logged, "sub_score_sum=35") {
		t.Errorf("warning missing sub-score sum, got: %s", logged)
	}
}
