package formsyntax

import (
	"errors"
	"fmt"
)

var (
	// ErrNoKey is returned when a colon appears before any key content.
	ErrNoKey = errors.New("no key given")
	// ErrInvalidKeyFormat is returned for a quote inside an unquoted key, or a
	// stray character between a completed key and its colon.
	ErrInvalidKeyFormat = errors.New("invalid key format")
	// ErrInvalidValueFormat is returned for a quote or colon inside an unquoted
	// value, and for input that does not end with a complete pair.
	ErrInvalidValueFormat = errors.New("invalid value format")
	// ErrOutOfState is returned when the state machine reaches a combination
	// of states that no input should produce.
	ErrOutOfState = errors.New("out of expected state")
)

// ParseError describes where a parse stopped.
type ParseError struct {
	// Err is one of the package sentinel errors.
	Err error
	// Offset is the index, in runes, of the rejected character. For errors
	// raised at end of input it equals the rune length of the input.
	Offset int
	// Char is the rejected character, or 0 at end of input.
	Char rune
	// CollectionState and StringState are the states that rejected Char.
	CollectionState CollectionState
	StringState     StringState
	// EOF is set when the error was raised after the last character.
	EOF bool
}

func (e *ParseError) Error() string {
	if e.EOF {
		return fmt.Sprintf("formsyntax: %v at end of input (offset %d)", e.Err, e.Offset)
	}
	return fmt.Sprintf("formsyntax: %v at offset %d (%q in %s/%s)", e.Err, e.Offset, e.Char, e.CollectionState, e.StringState)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Internal reports whether the error is an invariant violation of the parser
// rather than a problem with the input.
func (e *ParseError) Internal() bool {
	return errors.Is(e.Err, ErrOutOfState)
}
