// Package formsyntax parses the compact key/value syntax used on the command
// line to describe request headers and form fields.
//
// A form is one or more space-separated pairs:
//
//	key1:pbdr "key2":"LDVR 2.0" \:NEWKEY3:value
//
// Keys and values are either unquoted tokens or double-quoted tokens. A
// backslash copies the next character literally, both inside and outside of
// quotes; there is no escape table, so \n yields the single character n.
// The quote characters of a quoted token are kept in the collected text.
//
// Input is read as UTF-8 one rune at a time, and error offsets count runes.
// A byte that is not valid UTF-8 is read as U+FFFD, the way a range loop over
// a string decodes it.
//
// # Parsing Model
//
// The parser is a two-level state machine read one character at a time with
// no lookahead:
//
//   - CollectionState tracks which field is being built (PrepKey, BuildKey,
//     PrepVal, BuildVal).
//   - StringState tracks how characters are decoded (Default, EndKey,
//     SpecialChar, InStr, OutStr, InStrSpecial).
//
// A completed pair is flushed into the result when the next key starts, or at
// end of input when both the key and value buffers are non-empty. Later pairs
// overwrite earlier pairs with the same key.
//
// # Errors
//
// The first illegal character aborts the parse and no partial map is
// returned. Errors are *ParseError values wrapping one of ErrNoKey,
// ErrInvalidKeyFormat, ErrInvalidValueFormat or ErrOutOfState:
//
//	fields, err := formsyntax.Parse(`user:alice "full name":"Alice Liddell"`)
//	if errors.Is(err, formsyntax.ErrInvalidKeyFormat) {
//	    // reject the flag value
//	}
//
// ErrOutOfState means the machine reached a state combination it never
// should; it indicates a bug in this package, not bad input.
package formsyntax
