package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathbank/internal/bank"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse problems stored in the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		limit, _ := cmd.Flags().GetInt("limit")
		showSolutions, _ := cmd.Flags().GetBool("show-solutions")

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

		var shown int
		var rows [][]string
		for _, p := range problems {
			if topic != "" && !strings.EqualFold(p.Topic, topic) {
				continue
			}
			if limit > 0 && shown >= limit {
				break
			}
			shown++

			if showSolutions {
				fmt.Printf("[%s] %s (%s, score %.2f)\n", shortID(p.ID), p.Topic, p.Difficulty, p.ValidationScore)
				fmt.Println("Problem: ", p.ProblemText)
				fmt.Println("Solution:", p.SolutionText)
				fmt.Println()
				continue
			}

			rows = append(rows, []string{
				shortID(p.ID),
				p.Topic,
				p.Difficulty,
				fmt.Sprintf("%.2f", p.ValidationScore),
				truncate(p.ProblemText, 60),
			})
		}

		if shown == 0 {
			if topic != "" {
				fmt.Printf("No problems found for topic %q.\n", topic)
			} else {
				fmt.Println("Bank is empty.")
			}
			return nil
		}

		if !showSolutions {
			fmt.Println(renderTable(
				[]string{"ID", "Topic", "Difficulty", "Score", "Problem"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().StringP("topic", "t", "", "Only show problems for this topic")
	viewCmd.Flags().IntP("limit", "n", 20, "Maximum number of problems to show (0 = all)")
	viewCmd.Flags().Bool("show-solutions", false, "Print full problem and solution text")
}
