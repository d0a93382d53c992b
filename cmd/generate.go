package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/abhisek/mathbank/internal/bank"
	"github.com/abhisek/mathbank/internal/curator"
	"github.com/abhisek/mathbank/internal/events"
	"github.com/abhisek/mathbank/internal/llm"
	"github.com/abhisek/mathbank/internal/seedprep"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate, validate, and store problem variations from seeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		seedsPath, _ := cmd.Flags().GetString("seeds")
		numSeeds, _ := cmd.Flags().GetInt("num-seeds")
		variations, _ := cmd.Flags().GetInt("variations")
		showSamples, _ := cmd.Flags().GetBool("show-samples")

		if variations < 0 {
			return fmt.Errorf("variations must be >= 0, got %d", variations)
		}

		seeds, err := seedprep.LoadSeeds(seedsPath)
		if err != nil {
			return err
		}
		if numSeeds > 0 && numSeeds < len(seeds) {
			seeds = seeds[:numSeeds]
		}
		if len(seeds) == 0 {
			return fmt.Errorf("no seed problems in %s", seedsPath)
		}

		bankPath, err := resolveBankPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve bank path: %w", err)
		}
		b, err := bank.Open(bankPath)
		if err != nil {
			return fmt.Errorf("open bank: %w", err)
		}

		repo := openEventLog(logger)

		provider, err := llm.NewProviderFromEnv(ctx, repo, logger)
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		cfg := curator.DefaultConfig()
		if variations > 0 {
			cfg.Variations = variations
		}

		printBanner(fmt.Sprintf("model %s · %d seed(s) · %d variation(s) each",
			provider.ModelID(), len(seeds), cfg.Variations))

		orch := curator.NewOrchestrator(provider, b, cfg, logger)
		batch := orch.ProcessBatch(ctx, seeds, cfg.Variations)

		printBatchResults(batch, showSamples, b)

		total, validated, err := orch.BankStatistics()
		if err != nil {
			return fmt.Errorf("read bank statistics: %w", err)
		}
		fmt.Printf("\nBank now holds %d problem(s), %d validated.\n", total, validated)
		fmt.Println("Bank file:", b.Path())
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("seeds", "s", "", "Path to the seed problems JSON file")
	generateCmd.Flags().IntP("num-seeds", "n", 0, "Process only the first N seeds (0 = all)")
	generateCmd.Flags().IntP("variations", "k", 0, "Variations per seed (0 = default)")
	generateCmd.Flags().Bool("show-samples", false, "Print stored problems after the run")
	generateCmd.MarkFlagRequired("seeds")
}

// openEventLog opens the LLM event log, degrading to a no-op sink when
// it cannot be opened. The pipeline never depends on observability.
func openEventLog(logger *slog.Logger) events.Repo {
	path, err := events.DefaultLogPath()
	if err != nil {
		logger.Warn("event log disabled", slog.String("error", err.Error()))
		return events.NopRepo{}
	}
	log, err := events.Open(path)
	if err != nil {
		logger.Warn("event log disabled", slog.String("error", err.Error()))
		return events.NopRepo{}
	}
	return log
}

func printBatchResults(batch curator.BatchStats, showSamples bool, b *bank.Bank) {
	rows := make([][]string, 0, len(batch.SeedResults))
	for _, sr := range batch.SeedResults {
		rows = append(rows, []string{
			truncate(sr.SeedProblemID, 20),
			strconv.Itoa(sr.Generated),
			strconv.Itoa(sr.Validated),
			strconv.Itoa(sr.Rejected),
		})
	}
	rows = append(rows, []string{
		"TOTAL",
		strconv.Itoa(batch.TotalGenerated),
		strconv.Itoa(batch.TotalValidated),
		strconv.Itoa(batch.TotalRejected),
	})

	fmt.Println(renderTable(
		[]string{"Seed", "Generated", "Stored", "Rejected"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))

	if !showSamples {
		return
	}

	for _, sr := range batch.SeedResults {
		for _, ref := range sr.Stored {
			printStoredSample(b, ref)
		}
	}
}

func printStoredSample(b *bank.Bank, ref curator.StoredRef) {
	all, err := b.All()
	if err != nil {
		fmt.Fprintln(os.Stderr, "read bank:", err)
		return
	}
	for _, p := range all {
		if p.ID != ref.ID {
			continue
		}
		fmt.Printf("\n[%s] %s (%s, score %d)\n", shortID(p.ID), p.Topic, p.Difficulty, ref.Score)
		fmt.Println("Problem: ", p.ProblemText)
		fmt.Println("Solution:", p.SolutionText)
		if p.DiagramCode != "" {
			fmt.Println("Diagram:")
			fmt.Println(p.DiagramCode)
		}
		return
	}
}
