package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/store"
)

var gesturesCmd = &cobra.Command{
	Use:   "gestures",
	Short: "Inspect stored gestures",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored gestures",
	Run:   listGestures,
}

func init() {
	rootCmd.AddCommand(gesturesCmd)
	gesturesCmd.AddCommand(listCmd)
}

func openStore() *store.Store {
	settings, err := loadSettings()
	if err != nil {
		log.Fatal("Failed to load settings: ", err)
	}
	st, err := store.New(settings.DBPath)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}
	return st
}

func listGestures(cmd *cobra.Command, args []string) {
	st := openStore()
	defer st.Close()

	gestures, err := st.Gestures().List()
	if err != nil {
		log.Fatal("Failed to load gestures: ", err)
	}

	out := cmd.OutOrStdout()
	if len(gestures) == 0 {
		fmt.Fprintln(out, "No gestures stored")
		return
	}
	fmt.Fprintln(out, "Stored gestures:")
	for _, g := range gestures {
		fmt.Fprintf(out, "  %-20s %-16s min=%d fudge=%.0f samples=%d\n",
			g.Name, g.Pattern, g.MinMoves, g.FudgeFactor, g.Samples)
	}
}
