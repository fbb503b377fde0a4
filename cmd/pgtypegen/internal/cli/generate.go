package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pgtypegen/pgtypegen/codegen"
	"github.com/pgtypegen/pgtypegen/query"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Introspect annotated queries and emit typed query descriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			return fmt.Errorf("pgtypegen: --database-url (or $DATABASE_URL) is required")
		}

		untyped, err := loadQueries(queriesDir)
		if err != nil {
			return err
		}
		if len(untyped) == 0 {
			pterm.Warning.Printfln("no annotated queries found under %s", queriesDir)
			return nil
		}

		in, conn, err := dialIntrospector(databaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("introspecting %d queries", len(untyped)))

		var out io.Writer = os.Stdout
		if outFile != "" {
			f, err := os.Create(outFile)
			if err != nil {
				spinner.Fail()
				return err
			}
			defer f.Close()
			out = f
		}
		emitter := codegen.NewJSONEmitter(out)

		typed := make([]query.TypedQuery, 0, len(untyped))
		ctx := context.Background()
		for _, q := range untyped {
			tq, err := in.Describe(ctx, q)
			if err != nil {
				spinner.Fail()
				logger.Error("introspection failed", "query", q.Name, "file", q.FilePath, "err", err)
				return err
			}
			if err := emitter.Emit(tq); err != nil {
				spinner.Fail()
				return err
			}
			typed = append(typed, tq)
		}

		spinner.Success(fmt.Sprintf("introspected %d queries", len(typed)))

		if manifestPath != "" {
			m := codegen.BuildManifest(time.Now(), typed)
			f, err := os.Create(manifestPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := codegen.WriteManifest(f, m); err != nil {
				return err
			}
			pterm.Info.Printfln("wrote manifest to %s", manifestPath)
		}

		return nil
	},
}

var manifestPath string

func init() {
	generateCmd.Flags().StringVar(&outFile, "out", "", "output file for emitted queries (defaults to stdout)")
	generateCmd.Flags().StringVar(&manifestPath, "manifest", "pgtypegen.manifest.json", "path to write the drift-detection manifest")
}
