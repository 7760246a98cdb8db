package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Manage the database schema",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "version"},
	Run:       runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	// Opening the store already applies pending migrations
	st := openStore()
	defer st.Close()

	switch args[0] {
	case "up":
	case "down":
		if err := st.MigrateDown(); err != nil {
			log.Fatal(err)
		}
	case "version":
	default:
		log.Fatalf("Unknown migrate command: %s", args[0])
	}

	version, dirty, err := st.MigrateVersion()
	if err != nil {
		log.Fatal("Failed to read schema version: ", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d", version)
	if dirty {
		fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
	}
	fmt.Fprintln(cmd.OutOrStdout())
}
