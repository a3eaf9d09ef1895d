package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestColorSchemes(t *testing.T) {
	for name, scheme := range map[string]*ColorScheme{
		"default":  DefaultColorScheme(),
		"no color": NoColorScheme(),
	} {
		for i, c := range scheme.all() {
			if c == nil {
				t.Errorf("%s scheme: color %d is nil", name, i)
			}
		}
	}

	scheme := NoColorScheme()
	if got := scheme.Method.Sprint("GET"); got != "GET" {
		t.Errorf("NoColorScheme should not add escape codes, got %q", got)
	}
}

func TestColorScheme_Status(t *testing.T) {
	scheme := DefaultColorScheme()
	tests := []struct {
		code int
		want *color.Color
	}{
		{200, scheme.StatusOK},
		{204, scheme.StatusOK},
		{301, scheme.StatusWarn},
		{404, scheme.StatusError},
		{503, scheme.StatusError},
		{0, scheme.StatusError},
	}
	for _, tt := range tests {
		if got := scheme.Status(tt.code); got != tt.want {
			t.Errorf("Status(%d) returned the wrong color", tt.code)
		}
	}
}

func TestIcons(t *testing.T) {
	if SuccessIcon(true) != "✓" {
		t.Errorf("SuccessIcon(true) = %q", SuccessIcon(true))
	}
	if ErrorIcon(true) != "✗" {
		t.Errorf("ErrorIcon(true) = %q", ErrorIcon(true))
	}
	if WarningIcon(true) != "⚠" {
		t.Errorf("WarningIcon(true) = %q", WarningIcon(true))
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	if UseColor(&buf, false) {
		t.Error("a buffer is not a terminal")
	}
	if IsTerminal(&buf) {
		t.Error("IsTerminal(buffer) = true")
	}

	t.Setenv("FORCE_COLOR", "1")
	if !UseColor(&buf, false) {
		t.Error("FORCE_COLOR should enable colors")
	}
	if UseColor(&buf, true) {
		t.Error("--no-color should win over FORCE_COLOR")
	}

	t.Setenv("NO_COLOR", "1")
	if UseColor(&buf, false) {
		t.Error("NO_COLOR should disable colors")
	}
}
