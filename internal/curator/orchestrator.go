package curator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathbank/internal/bank"
	"github.com/abhisek/mathbank/internal/llm"
)

// StoredRef summarizes one stored problem in a seed's results.
type StoredRef struct {
	ID    string
	Topic string
	Score int
}

// SeedStats accumulates per-seed counters. Every variation ends in
// exactly one counter movement: generated is incremented per successful
// generation call, and each candidate then lands in validated or
// rejected; failed generation calls go straight to rejected.
type SeedStats struct {
	SeedProblemID string
	Generated     int
	Validated     int
	Rejected      int
	Stored        []StoredRef
}

// BatchStats sums SeedStats across a batch.
type BatchStats struct {
	TotalSeeds     int
	TotalGenerated int
	TotalValidated int
	TotalRejected  int
	SeedResults    []SeedStats
}

// Orchestrator sequences generation and validation for seeds and commits
// accepted candidates to the bank. Processing is strictly sequential:
// variations in order 1..K within a seed, seeds in input order.
type Orchestrator struct {
	gen    *GenerationStep
	val    *ValidationStep
	bank   *bank.Bank
	config Config
	logger *slog.Logger
}

// NewOrchestrator builds the pipeline on a shared provider and bank.
func NewOrchestrator(provider llm.Provider, b *bank.Bank, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gen:    NewGenerationStep(provider, cfg, logger),
		val:    NewValidationStep(provider, cfg, logger),
		bank:   b,
		config: cfg,
		logger: logger,
	}
}

// ProcessSeed runs the per-seed state machine for K variations. A failure
// in one variation never aborts the rest.
func (o *Orchestrator) ProcessSeed(ctx context.Context, seed SeedProblem, variations int) SeedStats {
	if seed.ID == "" {
		seed.ID = uuid.NewString()
	}

	stats := SeedStats{SeedProblemID: seed.ID}
	logger := o.logger.With(slog.String("seed_id", seed.ID), slog.String("topic", seed.Topic))

	seedText := FormatSeed(seed)

	for i := 1; i <= variations; i++ {
		vlog := logger.With(slog.Int("variation", i), slog.Int("of", variations))

		cand, ok, err := o.gen.Generate(ctx, seedText)
		if err != nil {
			vlog.Warn("generation failed", slog.String("error", err.Error()))
			stats.Rejected++
			continue
		}
		stats.Generated++

		if !ok {
			vlog.Warn("no usable candidate in response")
			stats.Rejected++
			continue
		}
		vlog.Info("candidate generated", slog.String("candidate_topic", cand.Topic))

		verdict, err := o.val.Validate(ctx, cand.ProblemText, cand.SolutionText)
		if err != nil {
			vlog.Warn("validation failed", slog.String("error", err.Error()))
			stats.Rejected++
			continue
		}
		vlog.Info("candidate scored",
			slog.Int("score", verdict.Score),
			slog.Bool("passed", verdict.Passed),
			slog.String("recommendation", string(verdict.Recommendation)))

		if !verdict.Accepted() {
			vlog.Info("candidate rejected by policy", slog.String("issues", verdict.Issues))
			stats.Rejected++
			continue
		}

		stored := bank.StoredProblem{
			ID:              uuid.NewString(),
			ProblemText:     cand.ProblemText,
			SolutionText:    cand.SolutionText,
			Difficulty:      NormalizeDifficulty(cand.Difficulty),
			Topic:           cand.Topic,
			CreatedAt:       time.Now().UTC(),
			Validated:       true,
			ValidationScore: float64(verdict.Score) / 100,
			SourceProblemID: seed.ID,
			DiagramCode:     cand.DiagramCode,
		}

		if err := o.bank.Add(stored); err != nil {
			// A duplicate is a distinct outcome from a quality failure,
			// but both count as rejected.
			if errors.Is(err, bank.ErrDuplicateID) {
				vlog.Warn("duplicate problem ID, not stored", slog.String("id", stored.ID))
			} else {
				vlog.Error("failed to store problem", slog.String("error", err.Error()))
			}
			stats.Rejected++
			continue
		}

		vlog.Info("problem stored", slog.String("id", stored.ID))
		stats.Validated++
		stats.Stored = append(stats.Stored, StoredRef{
			ID:    stored.ID,
			Topic: stored.Topic,
			Score: verdict.Score,
		})
	}

	return stats
}

// ProcessBatch runs the per-seed state machine for every seed in input
// order. One seed's unexpected failure is contained at the seed boundary:
// its variations are all counted as rejected and the batch continues.
func (o *Orchestrator) ProcessBatch(ctx context.Context, seeds []SeedProblem, variationsPerSeed int) BatchStats {
	batch := BatchStats{TotalSeeds: len(seeds)}

	for idx, seed := range seeds {
		o.logger.Info("processing seed",
			slog.Int("seed", idx+1),
			slog.Int("of", len(seeds)),
			slog.String("topic", seed.Topic))

		stats := o.processSeedSafe(ctx, seed, variationsPerSeed)

		batch.TotalGenerated += stats.Generated
		batch.TotalValidated += stats.Validated
		batch.TotalRejected += stats.Rejected
		batch.SeedResults = append(batch.SeedResults, stats)
	}

	return batch
}

// processSeedSafe contains a panicking seed so the batch survives it.
func (o *Orchestrator) processSeedSafe(ctx context.Context, seed SeedProblem, variations int) (stats SeedStats) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("seed processing panicked",
				slog.String("seed_id", seed.ID),
				slog.Any("panic", r))
			stats = SeedStats{SeedProblemID: seed.ID, Rejected: variations}
		}
	}()
	return o.ProcessSeed(ctx, seed, variations)
}

// BankStatistics reports current bank counts.
func (o *Orchestrator) BankStatistics() (total, validated int, err error) {
	total, err = o.bank.Count()
	if err != nil {
		return 0, 0, err
	}
	validated, err = o.bank.CountValidated()
	if err != nil {
		return 0, 0, err
	}
	return total, validated, nil
}
