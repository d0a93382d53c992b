package curator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathbank/internal/bank"
	"github.com/abhisek/mathbank/internal/llm"
)

func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.Open(filepath.Join(t.TempDir(), "problems.json"))
	require.NoError(t, err)
	return b
}

func testSeed() SeedProblem {
	return SeedProblem{
		ID:           "seed-1",
		ProblemText:  "What is 2+3?",
		SolutionText: "2+3 = 5. The answer is 5.",
		Difficulty:   "easy",
		Topic:        "algebra",
	}
}

func TestProcessSeed_AcceptPath(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: wellFormedCandidate},
		llm.MockResponse{Text: passingVerdict},
	)
	b := testBank(t)
	o := NewOrchestrator(mock, b, DefaultConfig(), discardLogger())

	stats := o.ProcessSeed(context.Background(), testSeed(), 1)

	assert.Equal(t, 1, stats.Generated)
	assert.Equal(t, 1, stats.Validated)
	assert.Equal(t, 0, stats.Rejected)
	require.Len(t, stats.Stored, 1)
	assert.Equal(t, 85, stats.Stored[0].Score)

	all, err := b.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Validated)
	assert.InDelta(t, 0.85, all[0].ValidationScore, 1e-9)
	assert.Equal(t, "seed-1", all[0].SourceProblemID)
	assert.NotEmpty(t, all[0].ID)
}

func TestProcessSeed_RevisedNeverStored(t *testing.T) {
	// High score, PASS, but the recommendation is REVISE: the policy is
	// conjunctive, so nothing may reach the bank.
	revise := `VALIDATION RESULT: PASS
SCORE: 92
RECOMMENDATION: REVISE`

	mock := llm.NewMockProvider(
		llm.MockResponse{Text: wellFormedCandidate},
		llm.MockResponse{Text: revise},
	)
	b := testBank(t)
	o := NewOrchestrator(mock, b, DefaultConfig(), discardLogger())

	stats := o.ProcessSeed(context.Background(), testSeed(), 1)

	assert.Equal(t, 1, stats.Generated)
	assert.Equal(t, 0, stats.Validated)
	assert.Equal(t, 1, stats.Rejected)

	n, err := b.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessSeed_UnusableGenerationRejectedAndContinues(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "NO_PROBLEMS_FOUND"}, // variation 1: no candidate
		llm.MockResponse{Text: wellFormedCandidate}, // variation 2: accepted
		llm.MockResponse{Text: passingVerdict},
	)
	b := testBank(t)
	o := NewOrchestrator(mock, b, DefaultConfig(), discardLogger())

	stats := o.ProcessSeed(context.Background(), testSeed(), 2)

	assert.Equal(t, 2, stats.Generated)
	assert.Equal(t, 1, stats.Validated)
	assert.Equal(t, 1, stats.Rejected)

	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProcessSeed_GenerationFailureDoesNotCountGenerated(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Text: wellFormedCandidate},
		llm.MockResponse{Text: passingVerdict},
	)
	b := testBank(t)
	o := NewOrchestrator(mock, b, DefaultConfig(), discardLogger())

	stats := o.ProcessSeed(context.Background(), testSeed(), 2)

	assert.Equal(t, 1, stats.Generated, "failed call must not count as generated")
	assert.Equal(t, 1, stats.Validated)
	assert.Equal(t, 1, stats.Rejected)
}

func TestProcessSeed_CountersBounded(t *testing.T) {
	// validated + rejected-of-generated <= generated <= K, for a mix of
	// outcomes across K variations.
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}, // rejected, not generated
		llm.MockResponse{Text: "garbage"},           // generated, rejected
		llm.MockResponse{Text: wellFormedCandidate}, // generated, validated
		llm.MockResponse{Text: passingVerdict},
	)
	b := testBank(t)
	o := NewOrchestrator(mock, b, DefaultConfig(), discardLogger())

	k := 3
	stats := o.ProcessSeed(context.Background(), testSeed(), k)

	assert.LessOrEqual(t, stats.Generated, k)
	assert.LessOrEqual(t, stats.Validated, stats.Generated)
	assert.Equal(t, k, stats.Validated+stats.Rejected)
}

func TestProcessSeed_ZeroVariations(t *testing.T) {
	mock := llm.NewMockProvider()
	b := testBank(t)
	o := NewOrchestrator(mock, b, DefaultConfig(), discardLogger())

	stats := o.ProcessSeed(context.Background(), testSeed(), 0)

	assert.Zero(t, stats.Generated)
	assert.Zero(t, stats.Validated)
	assert.Zero(t, stats.Rejected)
	assert.Zero(t, mock.CallCount())
}

func TestProcessSeed_SynthesizesSeedID(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: wellFormedCandidate},
		llm.MockResponse{Text: passingVerdict},
	)
	b := testBank(t)
	o := NewOrchestrator(mock, b, DefaultConfig(), discardLogger())

	seed := testSeed()
	seed.ID = ""
	stats := o.ProcessSeed(context.Background(), seed, 1)

	require.NotEmpty(t, stats.SeedProblemID)
	all, err := b.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, stats.SeedProblemID, all[0].SourceProblemID)
}

func TestProcessBatch_AggregatesAndSurvivesFailures(t *testing.T) {
	mock := llm.NewMockProvider(
		// Seed 1, variation 1: accepted.
		llm.MockResponse{Text: wellFormedCandidate},
		llm.MockResponse{Text: passingVerdict},
		// Seed 2, variation 1: service failure (queue keeps erroring
		// once empty, so seed 2 degrades without aborting the batch).
	)
	b := testBank(t)
	cfg := DefaultConfig()
	cfg.GenerationSampling.MaxTokens = 128
	o := NewOrchestrator(mock, b, cfg, discardLogger())

	seeds := []SeedProblem{testSeed(), {ID: "seed-2", ProblemText: "p", SolutionText: "s", Difficulty: "hard", Topic: "calculus"}}
	batch := o.ProcessBatch(context.Background(), seeds, 1)

	assert.Equal(t, 2, batch.TotalSeeds)
	assert.Equal(t, 1, batch.TotalGenerated)
	assert.Equal(t, 1, batch.TotalValidated)
	assert.Equal(t, 1, batch.TotalRejected)
	require.Len(t, batch.SeedResults, 2)
	assert.Equal(t, "seed-1", batch.SeedResults[0].SeedProblemID)
	assert.Equal(t, 1, batch.SeedResults[1].Rejected)
}

// panickingProvider blows up on every call, standing in for a bug in a
// step rather than a provider error.
type panickingProvider struct{}

func (panickingProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	panic("provider blew up")
}

func (panickingProvider) ModelID() string { return "mock" }

func TestProcessBatch_PanicContainedAtSeedBoundary(t *testing.T) {
	b := testBank(t)
	o := NewOrchestrator(panickingProvider{}, b, DefaultConfig(), discardLogger())

	seeds := []SeedProblem{testSeed(), {ID: "seed-2", ProblemText: "P?", SolutionText: "S.", Topic: "geometry"}}
	batch := o.ProcessBatch(context.Background(), seeds, 3)

	assert.Equal(t, 2, batch.TotalSeeds)
	assert.Equal(t, 0, batch.TotalGenerated)
	assert.Equal(t, 0, batch.TotalValidated)
	assert.Equal(t, 6, batch.TotalRejected)
	require.Len(t, batch.SeedResults, 2)
	for _, sr := range batch.SeedResults {
		assert.Equal(t, 3, sr.Rejected)
		assert.Empty(t, sr.Stored)
	}

	count, err := b.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProcessBatch_EmptySeedList(t *testing.T) {
	o := NewOrchestrator(llm.NewMockProvider(), testBank(t), DefaultConfig(), discardLogger())

	batch := o.ProcessBatch(context.Background(), nil, 3)

	assert.Zero(t, batch.TotalSeeds)
	assert.Zero(t, batch.TotalGenerated)
	assert.Empty(t, batch.SeedResults)
}
