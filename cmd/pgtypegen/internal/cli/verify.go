package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pgtypegen/pgtypegen/codegen"
	"github.com/pgtypegen/pgtypegen/query"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-introspect annotated queries and report drift against a previously generated manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			return fmt.Errorf("pgtypegen: --database-url (or $DATABASE_URL) is required")
		}

		f, err := os.Open(manifestPath)
		if err != nil {
			return fmt.Errorf("pgtypegen: open manifest %s: %w", manifestPath, err)
		}
		defer f.Close()
		previous, err := codegen.ReadManifest(f)
		if err != nil {
			return err
		}

		untyped, err := loadQueries(queriesDir)
		if err != nil {
			return err
		}

		in, conn, err := dialIntrospector(databaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("re-introspecting %d queries", len(untyped)))

		ctx := context.Background()
		fresh := make([]query.TypedQuery, 0, len(untyped))
		for _, q := range untyped {
			tq, err := in.Describe(ctx, q)
			if err != nil {
				spinner.Fail()
				logger.Error("introspection failed", "query", q.Name, "file", q.FilePath, "err", err)
				return err
			}
			fresh = append(fresh, tq)
		}
		spinner.Success("re-introspection complete")

		drifts := codegen.Diff(previous, fresh)
		if len(drifts) == 0 {
			pterm.Success.Println("no drift detected")
			return nil
		}

		table := pterm.TableData{{"Query", "Drift"}}
		for _, d := range drifts {
			table = append(table, []string{d.Query, d.Reason})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()

		return fmt.Errorf("pgtypegen: %d drift(s) detected against %s", len(drifts), manifestPath)
	},
}

func init() {
	verifyCmd.Flags().StringVar(&manifestPath, "manifest", "pgtypegen.manifest.json", "path to the manifest written by generate")
}
