package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/wesleyorama2/salvo/internal/formsyntax"
	"github.com/wesleyorama2/salvo/internal/http"
)

// MaxGuns caps the number of concurrent guns.
const MaxGuns = 1000

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is every problem found in one configuration.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i, err := range ve {
		errs[i] = err
	}
	return errs
}

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

var validOutputs = map[string]bool{
	"text": true, "json": true, "yaml": true,
}

// Validate checks a configuration after ApplyDefaults. It returns nil when
// the configuration is usable, otherwise ValidationErrors.
func Validate(config *Config) error {
	var errors ValidationErrors
	add := func(path, format string, args ...interface{}) {
		errors = append(errors, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if config.URL == "" {
		add("url", "url is required")
	} else if u, err := url.Parse(config.URL); err != nil {
		add("url", "invalid url: %v", err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("url", "unsupported scheme %q", u.Scheme)
	} else if u.Host == "" {
		add("url", "url has no host")
	}

	if !validMethods[strings.ToUpper(config.Method)] {
		add("method", "invalid method: %s", config.Method)
	}

	if config.Repeat < 1 {
		add("repeat", "repeat must be at least 1")
	}
	if config.Guns < 1 {
		add("guns", "guns must be at least 1")
	}
	if config.Guns > MaxGuns {
		add("guns", "guns cannot exceed %d", MaxGuns)
	}
	if config.Delay < 0 {
		add("delay", "delay cannot be negative")
	}
	if config.Timeout < 0 {
		add("timeout", "timeout cannot be negative")
	}
	if config.Rate < 0 {
		add("rate", "rate cannot be negative")
	}
	if !validOutputs[config.Output] {
		add("output", "invalid output format: %s", config.Output)
	}

	if config.Bullet.Header != "" {
		header, err := formsyntax.Parse(config.Bullet.Header)
		if err != nil {
			errors = append(errors, ValidationError{Path: "bullet.header", Message: err.Error(), Err: err})
		}
		for _, name := range sortedKeys(header) {
			value := formsyntax.Unquote(header[name])
			if err := http.ValidateHeader(formsyntax.Unquote(name), value); err != nil {
				errors = append(errors, ValidationError{Path: "bullet.header", Message: err.Error(), Err: err})
			}
		}
	}
	if config.Bullet.Form != "" {
		if _, err := formsyntax.Parse(config.Bullet.Form); err != nil {
			errors = append(errors, ValidationError{Path: "bullet.form", Message: err.Error(), Err: err})
		}
		if config.Bullet.Body != "" {
			add("bullet", "form and body cannot both be set")
		}
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
