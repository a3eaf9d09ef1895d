package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the salvo command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "salvo",
		Short:   "A terminal HTTP load shooter",
		Version: version,
		Long: `Salvo fires one HTTP request (the bullet) from several concurrent guns,
each repeating it a number of times, and reports latency and status statistics.

Headers and form fields are written in form syntax:
  key1:pbdr "key2":"LDVR 2.0" \:NEWKEY3:"Test\\\"Aphost"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Print every shot as it lands")
	cmd.PersistentFlags().Bool("debug", false, "Trace the form syntax parser and every shot on stderr")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(newFireCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

// reportedError marks an error a command already showed to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

func printError(w io.Writer, err error) {
	var re *reportedError
	if errors.As(err, &re) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
