package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

var (
	recognizePattern  string
	recognizeMinMoves int
	recognizeFudge    float64
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <trace.json>",
	Short: "Replay a recorded trace through a recognizer",
	Long: `Replay a JSON array of {"x":..,"y":..} points through a recognizer
for --pattern and print the result. Use "-" to read the trace from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().StringVarP(&recognizePattern, "pattern", "p", "", "direction pattern to match, e.g. 012345670")
	recognizeCmd.Flags().IntVar(&recognizeMinMoves, "min-moves", gesture.DefaultMinMoves, "moves required before a match")
	recognizeCmd.Flags().Float64Var(&recognizeFudge, "fudge", gesture.DefaultFudgeFactor, "scores below this match")
	recognizeCmd.MarkFlagRequired("pattern")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	pattern, err := gesture.ParsePattern(recognizePattern)
	if err != nil {
		return err
	}

	points, err := readTrace(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := app.RecognizeTrace(gesture.Config{
		Pattern:     pattern,
		MinMoves:    recognizeMinMoves,
		FudgeFactor: recognizeFudge,
	}, points)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Matched {
		fmt.Fprintln(out, "matched")
	} else {
		fmt.Fprintln(out, "no match")
	}
	fmt.Fprintf(out, "  score: %d\n  moves: %d\n  path:  %s\n", result.Score, result.Moves, result.Path)
	return nil
}

func readTrace(cmd *cobra.Command, name string) ([]gesture.Point, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	var points []gesture.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("invalid trace: %w", err)
	}
	return points, nil
}
