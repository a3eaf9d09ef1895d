package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/salvo/internal/formsyntax"
	"github.com/wesleyorama2/salvo/internal/output"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <form-syntax>",
		Short: "Parse form syntax and print the resulting fields",
		Long: `Parse a header or form string the way fire does and print the fields.

  salvo parse 'key1:pbdr "key2":"LDVR 2.0"'
  salvo parse -o json 'user:alice pass:secret'
  salvo parse --canonical '"a b":c'`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	cmd.Flags().Bool("canonical", false, "Print the fields back in canonical form syntax")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	logger := loggerFor(cmd)
	input := args[0]

	outputFlag, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatter := output.NewFormatter(format, false, !output.UseColor(out, noColor))

	fields, err := formsyntax.New(formsyntax.WithLogger(logger)).Parse(input)
	if err != nil {
		logParseError(logger, "input", err)
		text, ferr := formatter.FormatParseError(input, err)
		if ferr != nil {
			return ferr
		}
		fmt.Fprint(out, text)
		return reported(err)
	}

	if canonical, _ := cmd.Flags().GetBool("canonical"); canonical {
		text, err := formsyntax.Format(fields)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}

	text, err := formatter.FormatFields(fields)
	if err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}
