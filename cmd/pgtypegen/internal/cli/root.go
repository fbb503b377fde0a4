// Package cli implements the pgtypegen command-line interface: flag and
// .env handling, the generate/verify subcommands, and the pterm progress
// UI wrapped around the introspection core.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "0.0.0-dev"

var (
	databaseURL string
	queriesDir  string
	outFile     string
	logger      *slog.Logger
	runID       string
)

var rootCmd = &cobra.Command{
	Use:           "pgtypegen",
	Short:         "Generate typed query descriptions from annotated SQL by introspecting PostgreSQL",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if databaseURL == "" {
			databaseURL = os.Getenv("DATABASE_URL")
		}
		runID = uuid.NewString()
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil)).With("run_id", runID)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (defaults to $DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&queriesDir, "queries", "queries", "directory of annotated .sql files")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pgtypegen version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("pgtypegen " + Version)
		return nil
	},
}

// Execute runs the CLI, exiting nonzero on error per spec.md's "Exit
// behavior" rule: an introspection failure aborts the run after logging
// the offending query name and server message.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
