package cmd

import (
	"log/slog"
	"os"

	"github.com/abhisek/mathbank/internal/bank"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathbank",
	Short: "AI math problem bank curator",
	Long:  "Mathbank — generates variations of seed math problems with an LLM,\nvalidates them for quality, and stores accepted problems in a local bank.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("bank", "", "Path to the problem bank JSON file (overrides MATHBANK_BANK env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogger installs the process-wide slog default. Pipeline progress
// goes to stderr so stdout stays clean for tables and samples.
func setupLogger(cmd *cobra.Command) {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveBankPath returns the bank path using --bank flag (highest
// priority), then MATHBANK_BANK env var, then the default XDG path.
func resolveBankPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		return p, bank.EnsureDir(p)
	}
	return bank.DefaultBankPath()
}
