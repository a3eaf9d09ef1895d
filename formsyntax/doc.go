// Package formsyntax exposes the salvo form syntax parser for programmatic
// use.
//
// The same syntax is accepted by the -H/--header and -f/--form flags of
// salvo fire. A form is a list of space-separated key:value pairs; keys and
// values may be double-quoted, and a backslash copies the next character
// literally.
//
// Basic Usage:
//
//	fields, err := formsyntax.Parse(`key1:pbdr "key2":"LDVR 2.0"`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(fields["key1"]) // pbdr
//
// Error Handling:
//
// Parse errors are *ParseError values. Match the cause with errors.Is and
// read the position with errors.As:
//
//	_, err := formsyntax.Parse(":value")
//	var perr *formsyntax.ParseError
//	if errors.As(err, &perr) && errors.Is(err, formsyntax.ErrNoKey) {
//	    fmt.Printf("no key before offset %d\n", perr.Offset)
//	}
//
// Tracing:
//
// A Parser built with WithLogger logs every state transition at debug level:
//
//	p := formsyntax.New(formsyntax.WithLogger(slog.Default()))
//	fields, err := p.Parse(input)
//
// Writing Forms:
//
// Format turns a map back into form syntax that Parse reads as the same map:
//
//	s, _ := formsyntax.Format(map[string]string{"user": "alice smith"})
//	// s == `user:alice\ smith`
package formsyntax
