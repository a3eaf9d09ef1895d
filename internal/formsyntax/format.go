package formsyntax

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrEmptyKey is returned by Format for a pair with an empty key.
	ErrEmptyKey = errors.New("empty key cannot be formatted")
	// ErrEmptyValue is returned by Format for a pair with an empty value.
	ErrEmptyValue = errors.New("empty value cannot be formatted")
)

// Format writes fields back as form syntax. Pairs are sorted by key and
// separated by one space; keys and values are written unquoted with a
// backslash before every space, colon, quote and backslash, so Parse returns
// an equal map.
func Format(fields map[string]string) (string, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for i, key := range keys {
		value := fields[key]
		if key == "" {
			return "", ErrEmptyKey
		}
		if value == "" {
			return "", ErrEmptyValue
		}
		if i > 0 {
			buf.WriteByte(' ')
		}
		writeEscaped(&buf, key)
		buf.WriteByte(':')
		writeEscaped(&buf, value)
	}
	return buf.String(), nil
}

func writeEscaped(buf *strings.Builder, s string) {
	for _, ch := range s {
		switch ch {
		case ' ', ':', '"', '\\':
			buf.WriteByte('\\')
		}
		buf.WriteRune(ch)
	}
}
