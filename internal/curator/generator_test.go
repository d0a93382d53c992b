package curator

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/abhisek/mathbank/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

const wellFormedCandidate = `---
PROBLEM:
A rectangle has a length of 12 cm and a width of 7 cm. What is its area?

SOLUTION:
Area = length * width = 12 * 7 = 84. The area is 84 square centimeters.

DIFFICULTY: easy
TOPIC: geometry

DIAGRAM_CODE:
NONE
---`

func TestGenerate_WellFormedResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: wellFormedCandidate})
	step := NewGenerationStep(mock, DefaultConfig(), discardLogger())

	cand, ok, err := step.Generate(context.Background(), "PROBLEM:\nWhat is 2+3?\nSOLUTION:\n5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a usable candidate")
	}
	if cand.ProblemText == "" || cand.SolutionText == "" {
		t.Fatalf("candidate fields empty: %+v", cand)
	}
	if cand.Difficulty != "easy" {
		t.Errorf("Difficulty = %q, want easy", cand.Difficulty)
	}
	if cand.Topic != "geometry" {
		t.Errorf("Topic = %q, want geometry", cand.Topic)
	}
	if cand.DiagramCode != "" {
		t.Errorf("DiagramCode = %q, want empty for NONE", cand.DiagramCode)
	}
}

func TestGenerate_EmptyInputNotRetried(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: wellFormedCandidate})
	step := NewGenerationStep(mock, DefaultConfig(), discardLogger())

	_, _, err := step.Generate(context.Background(), "   \n\t ")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected 0 service calls for invalid input, got %d", mock.CallCount())
	}
}

func TestGenerate_MalformedResponseIsNoCandidate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "NO_PROBLEMS_FOUND"})
	step := NewGenerationStep(mock, DefaultConfig(), discardLogger())

	cand, ok, err := step.Generate(context.Background(), "PROBLEM:\nWhat is 2+3?\nSOLUTION:\n5")
	if err != nil {
		t.Fatalf("a malformed response is not an error, got %v", err)
	}
	if ok || cand != nil {
		t.Fatalf("expected no candidate, got %+v", cand)
	}
}

func TestGenerate_MissingSolutionIsNoCandidate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "PROBLEM:\nWhat is 1+1?\nDIFFICULTY: easy\nTOPIC: algebra"})
	step := NewGenerationStep(mock, DefaultConfig(), discardLogger())

	_, ok, err := step.Generate(context.Background(), "seed problem text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("candidate without solution must be unusable")
	}
}

func TestGenerate_ServiceFailurePropagates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	step := NewGenerationStep(mock, DefaultConfig(), discardLogger())

	_, _, err := step.Generate(context.Background(), "seed problem text")
	if err == nil {
		t.Fatal("expected propagated service failure")
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable in chain, got %v", err)
	}
}

func TestGenerate_UsesGenerationSampling(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: wellFormedCandidate})
	cfg := DefaultConfig()
	step := NewGenerationStep(mock, cfg, discardLogger())

	if _, _, err := step.Generate(context.Background(), "seed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mock.Calls[0].Sampling; got != cfg.GenerationSampling {
		t.Errorf("Sampling = %+v, want %+v", got, cfg.GenerationSampling)
	}
	if mock.Calls[0].System == "" {
		t.Error("expected generator system instructions")
	}
}

func TestParseCandidate_DiagramCodeKept(t *testing.T) {
	raw := `PROBLEM:
Plot the line y = 2x + 1. What is the y-intercept?
SOLUTION:
At x = 0, y = 1. The y-intercept is 1.
DIFFICULTY: medium
TOPIC: algebra
DIAGRAM_CODE:
import matplotlib.pyplot as plt
plt.plot([0, 1], [1, 3])
plt.show()`

	cand, ok := parseCandidate(raw)
	if !ok {
		t.Fatal("expected usable candidate")
	}
	if cand.DiagramCode == "" {
		t.Error("expected diagram code to survive parsing")
	}
}
