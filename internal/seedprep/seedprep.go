// Package seedprep turns natural-language math problems into structured
// seed problems via the JSON contract, and loads/saves seed files.
package seedprep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/mathbank/internal/contract"
	"github.com/abhisek/mathbank/internal/curator"
	"github.com/abhisek/mathbank/internal/llm"
)

const prepInstructions = `You are a mathematical problem parsing agent.

Your role is to parse natural language mathematical problems into a structured JSON format.

For each problem provided, extract:
1. **Problem Statement** - The problem text with the question
2. **Solution** - The complete step-by-step solution
3. **Difficulty** - Classify as "easy", "medium", or "hard"
4. **Topic** - Identify the math topic (algebra, geometry, calculus, probability, etc.)

If the input doesn't include a solution, generate one.
If the input doesn't specify difficulty, infer it from the problem complexity.
If the input doesn't specify a topic, identify it from the mathematical concepts used.

Output ONLY valid JSON in this EXACT format:
` + "```json" + `
{
  "problem": "The complete problem statement with question",
  "solution": "Step-by-step solution with clear reasoning",
  "difficulty": "easy|medium|hard",
  "topic": "algebra|geometry|calculus|probability|etc"
}
` + "```" + `

Rules:
- Always output valid JSON (use proper escaping for quotes)
- Problem must end with a question
- Solution must have clear steps
- Difficulty must be one of: easy, medium, hard (lowercase)
- Topic should be a single word or hyphenated phrase
- Do not include extra text outside the JSON
- Ensure mathematical accuracy`

// Preparer parses natural-language problems into seeds.
type Preparer struct {
	provider llm.Provider
	sampling llm.Sampling
	logger   *slog.Logger
}

// NewPreparer creates a Preparer on the given provider.
func NewPreparer(provider llm.Provider, logger *slog.Logger) *Preparer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preparer{
		provider: provider,
		sampling: llm.Sampling{
			Temperature: 0.3,
			TopP:        0.9,
			TopK:        20,
			MaxTokens:   8192,
		},
		logger: logger,
	}
}

// parsedSeed is the raw JSON-contract shape before normalization.
type parsedSeed struct {
	Problem    string `json:"problem"`
	Solution   string `json:"solution"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

// Prepare parses one natural-language problem into a seed. Unlike the
// label/value steps this path is fail-fast: a response that does not
// carry a schema-valid JSON object is an error.
func (p *Preparer) Prepare(ctx context.Context, text string) (curator.SeedProblem, error) {
	if strings.TrimSpace(text) == "" {
		return curator.SeedProblem{}, fmt.Errorf("%w: problem text", curator.ErrEmptyInput)
	}

	text = curator.SanitizeText(text, 5000)

	ctx = llm.WithPurpose(ctx, "seed-prep")
	resp, err := p.provider.Generate(ctx, llm.Request{
		System: prepInstructions,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Parse this mathematical problem into JSON format:\n\n%s\n\nRemember to output ONLY the JSON object, nothing else.\n", text)},
		},
		Sampling: p.sampling,
	})
	if err != nil {
		return curator.SeedProblem{}, fmt.Errorf("seed preparation failed: %w", err)
	}

	raw, err := contract.ExtractJSON(resp.Text)
	if err != nil {
		return curator.SeedProblem{}, err
	}
	if err := validateSeedJSON(raw); err != nil {
		return curator.SeedProblem{}, fmt.Errorf("%w: %v", contract.ErrInvalidJSON, err)
	}

	var parsed parsedSeed
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return curator.SeedProblem{}, fmt.Errorf("%w: %v", contract.ErrInvalidJSON, err)
	}

	return curator.SeedProblem{
		ID:           "seed-" + uuid.NewString()[:8],
		ProblemText:  strings.TrimSpace(parsed.Problem),
		SolutionText: strings.TrimSpace(parsed.Solution),
		Difficulty:   curator.NormalizeDifficulty(parsed.Difficulty),
		Topic:        strings.TrimSpace(parsed.Topic),
	}, nil
}

// problemSplitRe separates blocks of problems on blank lines or numbered
// list markers.
var problemSplitRe = regexp.MustCompile(`\n\n+|\n\d+\.\s+`)

// PrepareAll parses multiple problems from free text, one block at a
// time, continuing past individual failures.
func (p *Preparer) PrepareAll(ctx context.Context, text string) ([]curator.SeedProblem, error) {
	blocks := problemSplitRe.Split(text, -1)

	var seeds []curator.SeedProblem
	for i, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		seed, err := p.Prepare(ctx, block)
		if err != nil {
			p.logger.Warn("failed to prepare problem",
				slog.Int("block", i+1),
				slog.String("error", err.Error()))
			continue
		}
		seeds = append(seeds, seed)
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("no problems could be prepared")
	}
	return seeds, nil
}
