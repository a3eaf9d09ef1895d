package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/salvo/internal/analytic"
	"github.com/wesleyorama2/salvo/internal/output"
	"github.com/wesleyorama2/salvo/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List stored runs, or show the report of one run",
		Long: `List the runs kept by fire --store, newest first. With a run ID, print the
report of that run again.

  salvo history --store runs.db
  salvo history --store runs.db 6f1c9a4e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().String("store", "", "SQLite database written by fire --store")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("store")
	if path == "" {
		return errors.New("--store is required")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	outputFlag, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")

	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatter := output.NewFormatter(format, verbose, !output.UseColor(out, noColor))

	ctx := cmd.Context()
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	var text string
	if len(args) == 1 {
		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		text, err = formatter.FormatReport(analytic.Summarize(run))
		if err != nil {
			return err
		}
	} else {
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		text, err = formatter.FormatHistory(runs)
		if err != nil {
			return err
		}
	}

	fmt.Fprint(out, text)
	return nil
}
