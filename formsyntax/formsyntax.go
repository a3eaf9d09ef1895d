package formsyntax

import (
	"log/slog"

	internal "github.com/wesleyorama2/salvo/internal/formsyntax"
)

type (
	// Parser converts form syntax into a string map. It is safe for
	// concurrent use.
	Parser = internal.Parser
	// Option configures a Parser.
	Option = internal.Option
	// ParseError describes where a parse stopped.
	ParseError = internal.ParseError
	// CollectionState tracks which field of a pair is being built.
	CollectionState = internal.CollectionState
	// StringState tracks how characters are decoded.
	StringState = internal.StringState
)

// Errors wrapped by ParseError.
var (
	ErrNoKey              = internal.ErrNoKey
	ErrInvalidKeyFormat   = internal.ErrInvalidKeyFormat
	ErrInvalidValueFormat = internal.ErrInvalidValueFormat
	ErrOutOfState         = internal.ErrOutOfState
)

// Errors returned by Format.
var (
	ErrEmptyKey   = internal.ErrEmptyKey
	ErrEmptyValue = internal.ErrEmptyValue
)

// Parse parses input with a Parser that does no tracing.
func Parse(input string) (map[string]string, error) {
	return internal.Parse(input)
}

// New creates a Parser with the given options.
func New(options ...Option) *Parser {
	return internal.New(options...)
}

// WithLogger traces every state transition at debug level.
func WithLogger(logger *slog.Logger) Option {
	return internal.WithLogger(logger)
}

// Format writes fields as form syntax.
func Format(fields map[string]string) (string, error) {
	return internal.Format(fields)
}

// Unquote removes the quotes that delimit a quoted token.
func Unquote(s string) string {
	return internal.Unquote(s)
}
