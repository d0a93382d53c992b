package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/abhisek/mathbank/internal/bank"
	"github.com/abhisek/mathbank/internal/events"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bank contents and LLM usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		bankPath, err := resolveBankPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve bank path: %w", err)
		}
		b, err := bank.Open(bankPath)
		if err != nil {
			return fmt.Errorf("open bank: %w", err)
		}

		problems, err := b.All()
		if err != nil {
			return fmt.Errorf("read bank: %w", err)
		}

		byTopic := map[string]int{}
		byDifficulty := map[string]int{}
		validated := 0
		for _, p := range problems {
			byTopic[p.Topic]++
			byDifficulty[p.Difficulty]++
			if p.Validated {
				validated++
			}
		}

		fmt.Printf("Problem bank: %s\n", b.Path())
		fmt.Printf("Total problems: %d (%d validated)\n\n", len(problems), validated)

		if len(problems) > 0 {
			fmt.Println(renderTable(
				[]string{"Topic", "Count"},
				countRows(byTopic),
				[]columnAlignment{alignLeft, alignRight},
			))
			fmt.Println()
			fmt.Println(renderTable(
				[]string{"Difficulty", "Count"},
				countRows(byDifficulty),
				[]columnAlignment{alignLeft, alignRight},
			))
		}

		printLLMTotals(cmd.Context())
		return nil
	},
}

// countRows converts a counter map into sorted table rows.
func countRows(counts map[string]int) [][]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(counts[k])})
	}
	return rows
}

func printLLMTotals(ctx context.Context) {
	path, err := events.DefaultLogPath()
	if err != nil {
		return
	}
	log, err := events.Open(path)
	if err != nil {
		return
	}
	defer log.Close()

	totals, err := log.Totals(ctx)
	if err != nil || totals.Requests == 0 {
		return
	}

	fmt.Println()
	fmt.Println(renderTable(
		[]string{"LLM Requests", "Failures", "Input Tokens", "Output Tokens"},
		[][]string{{
			strconv.Itoa(totals.Requests),
			strconv.Itoa(totals.Failures),
			strconv.Itoa(totals.InputTokens),
			strconv.Itoa(totals.OutputTokens),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	))
}
