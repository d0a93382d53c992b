package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abhisek/mathbank/internal/llm"
	"github.com/abhisek/mathbank/internal/seedprep"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Prepare seed problems from natural-language text",
}

var seedPrepareCmd = &cobra.Command{
	Use:   "prepare <file>",
	Short: "Parse a text file of math problems into a seed JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		out, _ := cmd.Flags().GetString("out")

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}

		repo := openEventLog(logger)
		provider, err := llm.NewProviderFromEnv(ctx, repo, logger)
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		printBanner(fmt.Sprintf("preparing seeds with %s", provider.ModelID()))

		prep := seedprep.NewPreparer(provider, logger)
		seeds, err := prep.PrepareAll(ctx, string(raw))
		if err != nil {
			return err
		}

		if err := seedprep.SaveSeeds(out, seeds); err != nil {
			return err
		}

		fmt.Printf("Prepared %d seed(s) into %s\n", len(seeds), out)
		for _, s := range seeds {
			fmt.Printf("  %s  %-12s %-8s %s\n", s.ID, s.Topic, s.Difficulty, truncate(s.ProblemText, 60))
		}
		return nil
	},
}

func init() {
	seedPrepareCmd.Flags().StringP("out", "o", "seeds.json", "Output seed JSON file")
	seedCmd.AddCommand(seedPrepareCmd)
}
