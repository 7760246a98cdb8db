package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/gesture"
)

var scoreCmd = &cobra.Command{
	Use:   "score <observed> <pattern>",
	Short: "Print the edit distance between two direction strings",
	Example: `  mudra score 01234567 012345670
  mudra score "down, right" 20`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	observed, err := gesture.ParsePattern(args[0])
	if err != nil {
		return fmt.Errorf("observed: %w", err)
	}
	pattern, err := gesture.ParsePattern(args[1])
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), gesture.Score(observed, pattern))
	return nil
}
