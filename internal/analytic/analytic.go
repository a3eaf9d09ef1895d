// Package analytic aggregates the shots of a salvo into a report.
//
// Latencies are recorded in HDR histograms (1µs to 1h, 3 significant
// figures), so percentiles stay accurate for runs of any size.
package analytic

import (
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/salvo/internal/shooter"
)

// Histogram bounds in microseconds.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Report summarises one run.
type Report struct {
	RunID       string           `json:"runId" yaml:"runId"`
	Method      string           `json:"method" yaml:"method"`
	URL         string           `json:"url" yaml:"url"`
	Guns        int              `json:"guns" yaml:"guns"`
	Repeat      int              `json:"repeat" yaml:"repeat"`
	StartTime   time.Time        `json:"startTime" yaml:"startTime"`
	Duration    time.Duration    `json:"duration" yaml:"duration"`
	TotalShots  int64            `json:"totalShots" yaml:"totalShots"`
	Succeeded   int64            `json:"succeeded" yaml:"succeeded"`
	Failed      int64            `json:"failed" yaml:"failed"`
	ErrorRate   float64          `json:"errorRate" yaml:"errorRate"`
	TotalBytes  int64            `json:"totalBytes" yaml:"totalBytes"`
	Throughput  float64          `json:"throughput" yaml:"throughput"`
	Latency     LatencyStats     `json:"latency" yaml:"latency"`
	StatusCodes map[int]int64    `json:"statusCodes,omitempty" yaml:"statusCodes,omitempty"`
	PerGun      []GunStats       `json:"perGun,omitempty" yaml:"perGun,omitempty"`
	Extracted   map[string]int64 `json:"extracted,omitempty" yaml:"extracted,omitempty"`
}

// LatencyStats contains latency statistics.
type LatencyStats struct {
	Min    time.Duration `json:"min" yaml:"min"`
	Max    time.Duration `json:"max" yaml:"max"`
	Mean   time.Duration `json:"mean" yaml:"mean"`
	StdDev time.Duration `json:"stdDev" yaml:"stdDev"`
	P50    time.Duration `json:"p50" yaml:"p50"`
	P90    time.Duration `json:"p90" yaml:"p90"`
	P95    time.Duration `json:"p95" yaml:"p95"`
	P99    time.Duration `json:"p99" yaml:"p99"`
	Count  int64         `json:"count" yaml:"count"`
}

// GunStats is the share of one gun in a run.
type GunStats struct {
	GunID   int          `json:"gunId" yaml:"gunId"`
	Shots   int64        `json:"shots" yaml:"shots"`
	Failed  int64        `json:"failed" yaml:"failed"`
	Latency LatencyStats `json:"latency" yaml:"latency"`
}

// Failed reports whether a shot counts as a failure: a transport or
// validation error, or an HTTP status of 400 and above.
func Failed(res *shooter.ShootResult) bool {
	return res.Err || res.StatusCode >= 400
}

// Summarize builds the report of run.
func Summarize(run *shooter.Run) *Report {
	report := &Report{
		RunID:       run.ID,
		Method:      run.Method,
		URL:         run.URL,
		Guns:        run.Guns,
		Repeat:      run.Repeat,
		StartTime:   run.StartTime,
		Duration:    run.Duration,
		StatusCodes: make(map[int]int64),
	}

	overall := newHistogram()
	perGun := make(map[int]*hdrhistogram.Histogram)
	gunStats := make(map[int]*GunStats)

	for i := range run.Results {
		res := &run.Results[i]
		micros := clamp(res.Latency.Microseconds())

		overall.RecordValue(micros)

		hist, ok := perGun[res.GunID]
		if !ok {
			hist = newHistogram()
			perGun[res.GunID] = hist
			gunStats[res.GunID] = &GunStats{GunID: res.GunID}
		}
		hist.RecordValue(micros)

		stats := gunStats[res.GunID]
		stats.Shots++
		report.TotalShots++
		report.TotalBytes += res.Bytes

		if Failed(res) {
			stats.Failed++
			report.Failed++
		} else {
			report.Succeeded++
		}

		if res.StatusCode != 0 {
			report.StatusCodes[res.StatusCode]++
		}
		if res.Extracted != "" {
			if report.Extracted == nil {
				report.Extracted = make(map[string]int64)
			}
			report.Extracted[res.Extracted]++
		}
	}

	report.Latency = latencyStats(overall)
	if report.TotalShots > 0 {
		report.ErrorRate = float64(report.Failed) / float64(report.TotalShots)
	}
	if report.Duration > 0 {
		report.Throughput = float64(report.TotalShots) / report.Duration.Seconds()
	}

	for id, stats := range gunStats {
		stats.Latency = latencyStats(perGun[id])
		report.PerGun = append(report.PerGun, *stats)
	}
	sort.Slice(report.PerGun, func(i, j int) bool {
		return report.PerGun[i].GunID < report.PerGun[j].GunID
	})

	return report
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
}

func clamp(micros int64) int64 {
	if micros < histogramMin {
		return histogramMin
	}
	if micros > histogramMax {
		return histogramMax
	}
	return micros
}

func latencyStats(hist *hdrhistogram.Histogram) LatencyStats {
	if hist.TotalCount() == 0 {
		return LatencyStats{}
	}
	return LatencyStats{
		Min:    time.Duration(hist.Min()) * time.Microsecond,
		Max:    time.Duration(hist.Max()) * time.Microsecond,
		Mean:   time.Duration(hist.Mean()) * time.Microsecond,
		StdDev: time.Duration(hist.StdDev()) * time.Microsecond,
		P50:    time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:    time.Duration(hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:    time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:    time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond,
		Count:  hist.TotalCount(),
	}
}
