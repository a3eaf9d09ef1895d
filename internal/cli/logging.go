package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/salvo/internal/formsyntax"
)

// newLogger returns a text logger on w. The level is Warn, Info with
// verbose and Debug with debug.
func newLogger(w io.Writer, verbose, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loggerFor(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	return newLogger(cmd.ErrOrStderr(), verbose, debug)
}

// logParseError logs a form syntax error found in field. Out-of-state
// errors are parser defects and go out at error level; the rest are bad
// input. It reports whether err held a parse error.
func logParseError(logger *slog.Logger, field string, err error) bool {
	var perr *formsyntax.ParseError
	if !errors.As(err, &perr) {
		return false
	}

	attrs := []any{
		slog.String("field", field),
		slog.Int("offset", perr.Offset),
		slog.Bool("eof", perr.EOF),
		slog.String("collection", perr.CollectionState.String()),
		slog.String("string", perr.StringState.String()),
	}
	if perr.Internal() {
		logger.Error("form syntax parser reached an unexpected state", append(attrs, slog.Any("error", perr.Err))...)
	} else {
		logger.Warn("rejected form syntax", append(attrs, slog.Any("error", perr.Err))...)
	}
	return true
}
