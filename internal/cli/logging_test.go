package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wesleyorama2/salvo/internal/formsyntax"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name           string
		verbose, debug bool
		want           []string
		notWant        []string
	}{
		{"default", false, false, []string{"level=WARN"}, []string{"level=INFO", "level=DEBUG"}},
		{"verbose", true, false, []string{"level=WARN", "level=INFO"}, []string{"level=DEBUG"}},
		{"debug", false, true, []string{"level=INFO", "level=DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.verbose, tt.debug)
			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")

			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestLogParseError(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false, false)

	_, err := formsyntax.Parse("a:b:c")
	assert.True(t, logParseError(logger, "bullet.form", err))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "field=bullet.form")
	assert.Contains(t, buf.String(), "offset=3")

	buf.Reset()
	internal := &formsyntax.ParseError{Err: formsyntax.ErrOutOfState, Offset: 2}
	assert.True(t, logParseError(logger, "bullet.header", internal))
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	assert.False(t, logParseError(logger, "url", errors.New("other")))
	assert.False(t, logParseError(logger, "url", nil))
	assert.Empty(t, buf.String())
}
