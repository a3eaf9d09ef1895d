package output

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/wesleyorama2/salvo/internal/analytic"
	"github.com/wesleyorama2/salvo/internal/formsyntax"
	"github.com/wesleyorama2/salvo/internal/shooter"
	"github.com/wesleyorama2/salvo/internal/store"
)

const ruleWidth = 56

// Formatter renders shots, reports, parse results and run history.
type Formatter struct {
	Format  OutputFormat
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(format OutputFormat, verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Format:  format,
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatShot renders the one-line summary of a shot.
func (f *Formatter) FormatShot(res *shooter.ShootResult) string {
	if res.Err {
		return fmt.Sprintf("%s %s", ErrorIcon(f.NoColor), f.colors.Error.Sprint(res.ShowResult()))
	}
	icon := SuccessIcon(f.NoColor)
	if res.StatusCode >= 400 {
		icon = WarningIcon(f.NoColor)
	}
	return fmt.Sprintf("%s %s %s", icon, f.colors.Status(res.StatusCode).Sprintf("%d", res.StatusCode), res.ShowResult())
}

// FormatReport renders the summary of a run.
func (f *Formatter) FormatReport(r *analytic.Report) (string, error) {
	if f.Format != FormatText {
		return marshal(f.Format, r, !f.NoColor)
	}

	var buf strings.Builder
	line := strings.Repeat("─", ruleWidth)

	status := f.colors.Success.Sprint("Completed ✓")
	if r.Failed > 0 {
		status = f.colors.Error.Sprint("Completed with errors ✗")
	}

	buf.WriteString(line + "\n")
	fmt.Fprintf(&buf, "%s %s - %s\n", f.colors.Label.Sprint("Salvo"), r.RunID, status)
	buf.WriteString(line + "\n")
	fmt.Fprintf(&buf, "Target:        %s %s\n", f.colors.Method.Sprint(r.Method), f.colors.URL.Sprint(r.URL))
	fmt.Fprintf(&buf, "Guns:          %d x %d shots\n", r.Guns, r.Repeat)
	fmt.Fprintf(&buf, "Duration:      %s\n", formatDuration(r.Duration))
	fmt.Fprintf(&buf, "Total Shots:   %s\n", formatNumber(r.TotalShots))
	fmt.Fprintf(&buf, "Success Rate:  %s\n", f.successRate(r))
	fmt.Fprintf(&buf, "Throughput:    %.1f shots/s\n", r.Throughput)
	fmt.Fprintf(&buf, "Transferred:   %s bytes\n", formatNumber(r.TotalBytes))
	buf.WriteString("\n")

	if r.Latency.Count > 0 {
		buf.WriteString(f.colors.Label.Sprint("Latency Distribution:") + "\n")
		writeLatency(&buf, "  ", r.Latency)
		buf.WriteString("\n")
	}

	if len(r.StatusCodes) > 0 {
		buf.WriteString(f.colors.Label.Sprint("Status Codes:") + "\n")
		codes := make([]int, 0, len(r.StatusCodes))
		for code := range r.StatusCodes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(&buf, "  %s  %s\n", f.colors.Status(code).Sprintf("%d", code), formatNumber(r.StatusCodes[code]))
		}
		buf.WriteString("\n")
	}

	if len(r.Extracted) > 0 {
		buf.WriteString(f.colors.Label.Sprint("Extracted Values:") + "\n")
		for _, value := range sortedKeys(r.Extracted) {
			fmt.Fprintf(&buf, "  %s  %s\n", f.colors.Highlight.Sprint(value), formatNumber(r.Extracted[value]))
		}
		buf.WriteString("\n")
	}

	if f.Verbose && len(r.PerGun) > 0 {
		buf.WriteString(f.colors.Label.Sprint("Per Gun:") + "\n")
		for _, gun := range r.PerGun {
			fmt.Fprintf(&buf, "  GUN#%-4d shots %-6d failed %-6d p50 %-8s p99 %s\n",
				gun.GunID, gun.Shots, gun.Failed,
				formatDurationShort(gun.Latency.P50), formatDurationShort(gun.Latency.P99))
		}
		buf.WriteString("\n")
	}

	return buf.String(), nil
}

func (f *Formatter) successRate(r *analytic.Report) string {
	if r.TotalShots == 0 {
		return "n/a"
	}
	rate := 1.0 - r.ErrorRate
	c := f.colors.Success
	if rate < 0.99 {
		c = f.colors.StatusWarn
	}
	if rate < 0.95 {
		c = f.colors.Error
	}
	return c.Sprintf("%.1f%%", rate*100)
}

func writeLatency(buf *strings.Builder, indent string, l analytic.LatencyStats) {
	rows := []struct {
		name  string
		value time.Duration
	}{
		{"Min", l.Min},
		{"Mean", l.Mean},
		{"StdDev", l.StdDev},
		{"P50", l.P50},
		{"P90", l.P90},
		{"P95", l.P95},
		{"P99", l.P99},
		{"Max", l.Max},
	}
	for _, row := range rows {
		fmt.Fprintf(buf, "%s%-10s %s\n", indent, row.name+":", formatDurationShort(row.value))
	}
}

// FormatFields renders a parsed form-syntax map.
func (f *Formatter) FormatFields(fields map[string]string) (string, error) {
	if f.Format != FormatText {
		return marshal(f.Format, fields, !f.NoColor)
	}
	if len(fields) == 0 {
		return "(no fields)\n", nil
	}

	var buf strings.Builder
	for _, key := range sortedKeys(fields) {
		fmt.Fprintf(&buf, "%s = %s\n", f.colors.Key.Sprint(key), f.colors.Value.Sprint(fields[key]))
	}
	return buf.String(), nil
}

// ParseFailure is the structured form of a rejected form-syntax input.
type ParseFailure struct {
	Input      string `json:"input" yaml:"input"`
	Message    string `json:"error" yaml:"error"`
	Kind       string `json:"kind" yaml:"kind"`
	Offset     int    `json:"offset" yaml:"offset"`
	Char       string `json:"char,omitempty" yaml:"char,omitempty"`
	EndOfInput bool   `json:"endOfInput" yaml:"endOfInput"`
}

// NewParseFailure classifies err, which should come from formsyntax.
func NewParseFailure(input string, err error) ParseFailure {
	failure := ParseFailure{Input: input, Message: err.Error(), Kind: "input"}

	var perr *formsyntax.ParseError
	if errors.As(err, &perr) {
		failure.Message = perr.Err.Error()
		failure.Offset = perr.Offset
		failure.EndOfInput = perr.EOF
		if !perr.EOF {
			failure.Char = string(perr.Char)
		}
		if perr.Internal() {
			failure.Kind = "internal"
		}
	}
	return failure
}

// FormatParseError renders a parse failure, pointing at the rejected
// character in text mode.
func (f *Formatter) FormatParseError(input string, err error) (string, error) {
	failure := NewParseFailure(input, err)
	if f.Format != FormatText {
		return marshal(f.Format, failure, !f.NoColor)
	}

	var buf strings.Builder
	label := "input error"
	if failure.Kind == "internal" {
		label = "internal error"
	}
	fmt.Fprintf(&buf, "%s %s: %s", ErrorIcon(f.NoColor), f.colors.Error.Sprint(label), failure.Message)
	if failure.EndOfInput {
		buf.WriteString(" at end of input\n")
	} else {
		fmt.Fprintf(&buf, " at offset %d (%q)\n", failure.Offset, failure.Char)
	}
	fmt.Fprintf(&buf, "  %s\n", input)
	fmt.Fprintf(&buf, "  %s%s\n", strings.Repeat(" ", caretColumn(input, failure.Offset)), f.colors.Highlight.Sprint("^"))
	return buf.String(), nil
}

// caretColumn is the terminal column of the rune at offset, counting wide
// runes as two cells.
func caretColumn(input string, offset int) int {
	runes := []rune(input)
	if offset > len(runes) {
		offset = len(runes)
	}
	return runewidth.StringWidth(string(runes[:offset]))
}

// FormatHistory renders stored runs, newest first.
func (f *Formatter) FormatHistory(runs []store.RunSummary) (string, error) {
	if f.Format != FormatText {
		return marshal(f.Format, runs, !f.NoColor)
	}
	if len(runs) == 0 {
		return "No runs stored.\n", nil
	}

	var buf strings.Builder
	for _, run := range runs {
		failed := f.colors.Success.Sprintf("%d failed", run.Failed)
		if run.Failed > 0 {
			failed = f.colors.Error.Sprintf("%d failed", run.Failed)
		}
		fmt.Fprintf(&buf, "%s  %s  %s %s  %d shots, %s  %s\n",
			f.colors.Highlight.Sprint(run.ID),
			run.StartTime.Format(time.RFC3339),
			f.colors.Method.Sprint(run.Method),
			f.colors.URL.Sprint(run.URL),
			run.Shots,
			failed,
			formatDuration(run.Duration))
	}
	return buf.String(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatDurationShort formats a duration in a short format.
func formatDurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
