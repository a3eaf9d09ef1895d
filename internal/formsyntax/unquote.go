package formsyntax

import "strings"

// Unquote removes the quotes that delimit a quoted token. Parse keeps them in
// the collected text, so `"X-Trace":"load test"` yields the key `"X-Trace"`;
// Unquote turns that into `X-Trace`. A value left open at end of input only
// loses its opening quote. Text that does not start with a quote is returned
// unchanged.
func Unquote(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	s = s[1:]
	if strings.HasSuffix(s, `"`) {
		s = s[:len(s)-1]
	}
	return s
}
