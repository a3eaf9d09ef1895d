// Package bullet turns the textual request description of a salvo into the
// request every gun fires.
package bullet

import (
	"fmt"

	"github.com/wesleyorama2/salvo/internal/config"
	"github.com/wesleyorama2/salvo/internal/formsyntax"
	"github.com/wesleyorama2/salvo/internal/http"
)

// Bullet is a parsed request payload. It is immutable once loaded and can be
// shared by every gun of a salvo.
type Bullet struct {
	Method string
	URL    string
	Header map[string]string
	Form   map[string]string
	Body   []byte
}

// Load parses the header and form syntax of payload. An empty string means the
// field is absent. Quoted keys and values lose their delimiting quotes, and
// every header must be sendable by net/http. On error nothing of the payload
// is used.
func Load(method, url string, payload config.BulletConfig, parser *formsyntax.Parser) (*Bullet, error) {
	if parser == nil {
		parser = formsyntax.New()
	}

	b := &Bullet{
		Method: method,
		URL:    url,
	}

	if payload.Header != "" {
		header, err := parser.Parse(payload.Header)
		if err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		b.Header = unquoteFields(header)
		for name, value := range b.Header {
			if err := http.ValidateHeader(name, value); err != nil {
				return nil, fmt.Errorf("header: %w", err)
			}
		}
	}

	if payload.Form != "" {
		form, err := parser.Parse(payload.Form)
		if err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
		b.Form = unquoteFields(form)
	}

	if payload.Body != "" {
		b.Body = []byte(payload.Body)
	}

	return b, nil
}

func unquoteFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		out[formsyntax.Unquote(key)] = formsyntax.Unquote(value)
	}
	return out
}

// Request builds the request fired by a gun. The target URL is the client
// base URL, so the request path is empty.
func (b *Bullet) Request() *http.Request {
	req := http.NewRequest(b.Method, "").WithHeaders(b.Header)
	if len(b.Form) > 0 {
		req.WithForm(b.Form)
	} else if b.Body != nil {
		req.WithBody(b.Body)
	}
	return req
}
