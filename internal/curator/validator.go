package curator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/mathbank/internal/contract"
	"github.com/abhisek/mathbank/internal/llm"
)

// verdictFields is the label/value contract of the validation rubric.
var verdictFields = []contract.Field{
	{Label: "VALIDATION RESULT", Kind: contract.Enum, Values: []string{"PASS", "FAIL"}, Default: "FAIL"},
	{Label: "SCORE", Kind: contract.Int, Min: 0, Max: 100, Default: "0"},
	{Label: "MATHEMATICAL_ACCURACY", Kind: contract.Int, Min: 0, Max: 40, Default: "0"},
	{Label: "SOLUTION_CORRECTNESS", Kind: contract.Int, Min: 0, Max: 30, Default: "0"},
	{Label: "CLARITY_COMPLETENESS", Kind: contract.Int, Min: 0, Max: 20, Default: "0"},
	{Label: "EDUCATIONAL_VALUE", Kind: contract.Int, Min: 0, Max: 10, Default: "0"},
	{Label: "FEEDBACK", Kind: contract.Text},
	{Label: "ISSUES", Kind: contract.Text},
	{Label: "RECOMMENDATION", Kind: contract.Enum, Values: []string{string(RecommendationAccept), string(RecommendationRevise), string(RecommendationReject)}, Default: string(RecommendationReject)},
}

// ValidationStep scores candidate problems against the quality rubric.
type ValidationStep struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// NewValidationStep creates a validation step on the given provider.
func NewValidationStep(provider llm.Provider, cfg Config, logger *slog.Logger) *ValidationStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationStep{provider: provider, config: cfg, logger: logger}
}

// Validate scores one candidate. The verdict is always structurally
// complete: malformed rubric output degrades to failing defaults rather
// than an error, so only service failures surface here.
func (s *ValidationStep) Validate(ctx context.Context, problemText, solutionText string) (*Verdict, error) {
	if strings.TrimSpace(problemText) == "" {
		return nil, fmt.Errorf("%w: problem text", ErrEmptyInput)
	}
	if strings.TrimSpace(solutionText) == "" {
		return nil, fmt.Errorf("%w: solution text", ErrEmptyInput)
	}

	problemText = SanitizeText(problemText, s.config.MaxInputLen)
	solutionText = SanitizeText(solutionText, s.config.MaxInputLen)

	ctx = llm.WithPurpose(ctx, "validation")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: validatorInstructions,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildValidationPrompt(problemText, solutionText)},
		},
		Sampling: s.config.ValidationSampling,
	})
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return s.parseVerdict(resp.Text), nil
}

// parseVerdict decodes the rubric response into a Verdict, logging every
// degradation the parser applied.
func (s *ValidationStep) parseVerdict(raw string) *Verdict {
	res := contract.Parse(raw, verdictFields)

	v := &Verdict{
		Passed: res.Text("VALIDATION RESULT") == "PASS",
		Score:  res.Int("SCORE"),
		SubScores: SubScores{
			MathematicalAccuracy: res.Int("MATHEMATICAL_ACCURACY"),
			SolutionCorrectness:  res.Int("SOLUTION_CORRECTNESS"),
			ClarityCompleteness:  res.Int("CLARITY_COMPLETENESS"),
			EducationalValue:     res.Int("EDUCATIONAL_VALUE"),
		},
		Feedback:       stripFence(res.Text("FEEDBACK")),
		Issues:         stripFence(res.Text("ISSUES")),
		Recommendation: Recommendation(res.Text("RECOMMENDATION")),
	}

	for _, c := range res.Diags.Clamped {
		s.logger.Warn("verdict field out of range, clamped",
			slog.String("field", c.Label),
			slog.Int("raw", c.Raw),
			slog.Int("clamped", c.Clamped))
	}
	if len(res.Diags.Missing) > 0 {
		s.logger.Warn("verdict fields missing, defaults applied",
			slog.Any("fields", res.Diags.Missing))
	}

	// The reported total stays authoritative; the disagreement is a
	// documented inconsistency, not a fatal error.
	if diff := v.Score - v.SubScores.Sum(); diff > s.config.ScoreTolerance || diff < -s.config.ScoreTolerance {
		s.logger.Warn("verdict score disagrees with sub-score sum",
			slog.Int("score", v.Score),
			slog.Int("sub_score_sum", v.SubScores.Sum()))
	}

	return v
}
