package curator

import "github.com/abhisek/mathbank/internal/llm"

// Config controls the behavior of the pipeline steps. An explicit config
// is passed to the constructors; there is no package-level state.
type Config struct {
	// GenerationSampling is the sampling profile for the generator agent.
	// High temperature: novelty is the point.
	GenerationSampling llm.Sampling

	// ValidationSampling is the sampling profile for the validator agent.
	// Low temperature: scoring should be consistent.
	ValidationSampling llm.Sampling

	// Variations is the number of candidates generated per seed.
	Variations int

	// ScoreTolerance is the allowed disagreement between the reported
	// total score and the sub-score sum before the discrepancy is logged.
	ScoreTolerance int

	// MaxInputLen truncates caller-supplied text before it is embedded
	// in a prompt.
	MaxInputLen int
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		GenerationSampling: llm.Sampling{
			Temperature: 0.9,
			TopP:        0.95,
			TopK:        40,
			MaxTokens:   2048,
		},
		ValidationSampling: llm.Sampling{
			Temperature: 0.3,
			TopP:        0.9,
			TopK:        20,
			MaxTokens:   2048,
		},
		Variations:     3,
		ScoreTolerance: 5,
		MaxInputLen:    10000,
	}
}
