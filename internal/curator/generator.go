package curator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/mathbank/internal/contract"
	"github.com/abhisek/mathbank/internal/llm"
)

// ErrEmptyInput reports a step invoked with empty or whitespace-only
// required input. Raised before any service call, so it is never retried.
var ErrEmptyInput = errors.New("required input is empty")

// candidateFields is the label/value contract the generator agent is
// instructed to produce.
var candidateFields = []contract.Field{
	{Label: "PROBLEM", Kind: contract.Text},
	{Label: "SOLUTION", Kind: contract.Text},
	{Label: "DIFFICULTY", Kind: contract.Enum, Values: []string{DifficultyEasy, DifficultyMedium, DifficultyHard}, Default: DefaultDifficulty},
	{Label: "TOPIC", Kind: contract.Text},
	{Label: "DIAGRAM_CODE", Kind: contract.Text},
}

// GenerationStep produces candidate problems from seed problems.
type GenerationStep struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// NewGenerationStep creates a generation step on the given provider.
func NewGenerationStep(provider llm.Provider, cfg Config, logger *slog.Logger) *GenerationStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationStep{provider: provider, config: cfg, logger: logger}
}

// Generate produces one candidate variation of the seed text. The three
// outcomes are distinct: a usable candidate (ok=true), a response that
// did not yield a candidate (ok=false, err=nil), and a failed service
// call (err != nil, retries already exhausted by the provider).
func (s *GenerationStep) Generate(ctx context.Context, seedText string) (*Candidate, bool, error) {
	if strings.TrimSpace(seedText) == "" {
		return nil, false, fmt.Errorf("%w: example problem", ErrEmptyInput)
	}

	seedText = SanitizeText(seedText, s.config.MaxInputLen)

	ctx = llm.WithPurpose(ctx, "problem-gen")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: generatorInstructions,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGenerationPrompt(seedText)},
		},
		Sampling: s.config.GenerationSampling,
	})
	if err != nil {
		return nil, false, fmt.Errorf("generation failed: %w", err)
	}

	cand, ok := parseCandidate(resp.Text)
	if !ok {
		s.logger.Warn("generated response did not contain a usable candidate",
			slog.Int("response_len", len(resp.Text)))
		return nil, false, nil
	}

	return cand, true, nil
}

// parseCandidate decodes generator output into a Candidate. A candidate
// is usable only if both problem and solution are non-empty after
// trimming; anything else is "no candidate".
func parseCandidate(raw string) (*Candidate, bool) {
	res := contract.Parse(raw, candidateFields)

	problem := res.Text("PROBLEM")
	solution := res.Text("SOLUTION")
	if problem == "" || solution == "" {
		return nil, false
	}

	topic := firstLine(res.Text("TOPIC"))
	if topic == "" {
		topic = DefaultTopic
	}

	diagram := stripFence(res.Text("DIAGRAM_CODE"))
	if strings.EqualFold(diagram, "NONE") {
		diagram = ""
	}

	return &Candidate{
		ProblemText:  stripFence(problem),
		SolutionText: stripFence(solution),
		Difficulty:   res.Text("DIFFICULTY"),
		Topic:        topic,
		DiagramCode:  diagram,
	}, true
}

// stripFence removes the "---" fence lines the agents wrap their output
// in, which otherwise survive in fields that run to end of text.
func stripFence(s string) string {
	lines := strings.Split(s, "\n")
	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(strings.Trim(line, "-")) == "" && strings.Contains(line, "---") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
