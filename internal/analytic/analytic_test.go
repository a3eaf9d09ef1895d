package analytic

import (
	"testing"
	"time"

	"github.com/wesleyorama2/salvo/internal/shooter"
)

func shot(gun, iter int, latency time.Duration, status int, err bool) shooter.ShootResult {
	return shooter.ShootResult{
		GunID:      gun,
		IterID:     iter,
		Latency:    latency,
		StatusCode: status,
		Bytes:      100,
		Err:        err,
	}
}

func TestSummarize(t *testing.T) {
	run := &shooter.Run{
		ID:       "run-1",
		Method:   "GET",
		URL:      "http://localhost",
		Guns:     2,
		Repeat:   5,
		Duration: 2 * time.Second,
	}
	for i := 0; i < 5; i++ {
		run.Results = append(run.Results, shot(0, i, time.Duration(i+1)*10*time.Millisecond, 200, false))
	}
	for i := 0; i < 5; i++ {
		run.Results = append(run.Results, shot(1, i, time.Duration(i+6)*10*time.Millisecond, 200, false))
	}
	run.Results[9] = shot(1, 4, 100*time.Millisecond, 503, false)
	run.Results[8] = shot(1, 3, 90*time.Millisecond, 0, true)

	report := Summarize(run)

	if report.RunID != "run-1" {
		t.Errorf("RunID = %s, want run-1", report.RunID)
	}
	if report.TotalShots != 10 {
		t.Errorf("TotalShots = %d, want 10", report.TotalShots)
	}
	if report.Succeeded != 8 || report.Failed != 2 {
		t.Errorf("Succeeded/Failed = %d/%d, want 8/2", report.Succeeded, report.Failed)
	}
	if report.ErrorRate != 0.2 {
		t.Errorf("ErrorRate = %v, want 0.2", report.ErrorRate)
	}
	if report.TotalBytes != 1000 {
		t.Errorf("TotalBytes = %d, want 1000", report.TotalBytes)
	}
	if report.Throughput != 5 {
		t.Errorf("Throughput = %v, want 5", report.Throughput)
	}
	if report.StatusCodes[200] != 8 || report.StatusCodes[503] != 1 {
		t.Errorf("StatusCodes = %v", report.StatusCodes)
	}
	if _, ok := report.StatusCodes[0]; ok {
		t.Error("StatusCodes should not count shots without a response")
	}

	if report.Latency.Count != 10 {
		t.Errorf("Latency.Count = %d, want 10", report.Latency.Count)
	}
	if report.Latency.P50 < 40*time.Millisecond || report.Latency.P50 > 60*time.Millisecond {
		t.Errorf("P50 = %v, want ~50ms", report.Latency.P50)
	}
	if report.Latency.Min < 9*time.Millisecond || report.Latency.Min > 11*time.Millisecond {
		t.Errorf("Min = %v, want ~10ms", report.Latency.Min)
	}
	if report.Latency.Max < 99*time.Millisecond || report.Latency.Max > 101*time.Millisecond {
		t.Errorf("Max = %v, want ~100ms", report.Latency.Max)
	}

	if len(report.PerGun) != 2 {
		t.Fatalf("PerGun = %d entries, want 2", len(report.PerGun))
	}
	if report.PerGun[0].GunID != 0 || report.PerGun[1].GunID != 1 {
		t.Errorf("PerGun not sorted: %+v", report.PerGun)
	}
	if report.PerGun[0].Failed != 0 || report.PerGun[1].Failed != 2 {
		t.Errorf("PerGun failures = %d/%d, want 0/2", report.PerGun[0].Failed, report.PerGun[1].Failed)
	}
	if report.PerGun[1].Latency.Count != 5 {
		t.Errorf("Gun 1 latency count = %d, want 5", report.PerGun[1].Latency.Count)
	}
}

func TestSummarize_Empty(t *testing.T) {
	report := Summarize(&shooter.Run{ID: "empty"})

	if report.TotalShots != 0 || report.ErrorRate != 0 || report.Throughput != 0 {
		t.Errorf("unexpected totals for empty run: %+v", report)
	}
	if report.Latency != (LatencyStats{}) {
		t.Errorf("Latency = %+v, want zero", report.Latency)
	}
	if len(report.PerGun) != 0 {
		t.Errorf("PerGun = %v, want empty", report.PerGun)
	}
}

func TestSummarize_Extracted(t *testing.T) {
	run := &shooter.Run{ID: "x"}
	for _, v := range []string{"a", "b", "a", ""} {
		res := shot(0, 0, time.Millisecond, 200, false)
		res.Extracted = v
		run.Results = append(run.Results, res)
	}

	report := Summarize(run)
	if report.Extracted["a"] != 2 || report.Extracted["b"] != 1 || len(report.Extracted) != 2 {
		t.Errorf("Extracted = %v", report.Extracted)
	}
}

func TestClamp(t *testing.T) {
	if clamp(0) != histogramMin {
		t.Errorf("clamp(0) = %d", clamp(0))
	}
	if clamp(histogramMax+1) != histogramMax {
		t.Errorf("clamp(max+1) = %d", clamp(histogramMax+1))
	}
	if clamp(500) != 500 {
		t.Errorf("clamp(500) = %d", clamp(500))
	}
}

func TestFailed(t *testing.T) {
	tests := []struct {
		res  shooter.ShootResult
		want bool
	}{
		{shot(0, 0, 0, 200, false), false},
		{shot(0, 0, 0, 302, false), false},
		{shot(0, 0, 0, 404, false), true},
		{shot(0, 0, 0, 200, true), true},
	}
	for _, tt := range tests {
		if got := Failed(&tt.res); got != tt.want {
			t.Errorf("Failed(%+v) = %v, want %v", tt.res, got, tt.want)
		}
	}
}
