package shooter

import (
	"time"

	"github.com/wesleyorama2/salvo/internal/http"
)

// ShootResult is the outcome of a single shot.
type ShootResult struct {
	GunID      int           `json:"gunId" yaml:"gunId"`
	IterID     int           `json:"iterId" yaml:"iterId"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Latency    time.Duration `json:"latency" yaml:"latency"`
	StatusCode int           `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Bytes      int64         `json:"bytes" yaml:"bytes"`
	Err        bool          `json:"err" yaml:"err"`
	Result     string        `json:"result,omitempty" yaml:"result,omitempty"`
	Extracted  string        `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	// Timing is the phase breakdown of Latency, zero when no response came.
	Timing http.TimingInfo `json:"-" yaml:"-"`
}

// ShowResult returns the text summary of the shot.
func (r *ShootResult) ShowResult() string {
	if r.Result == "" {
		return "Not firing yet..."
	}
	return r.Result
}

// LatencyMillis returns the shot latency in whole milliseconds.
func (r *ShootResult) LatencyMillis() int64 {
	return r.Latency.Milliseconds()
}

// Run is a finished (or interrupted) salvo.
type Run struct {
	ID        string        `json:"id" yaml:"id"`
	Method    string        `json:"method" yaml:"method"`
	URL       string        `json:"url" yaml:"url"`
	Guns      int           `json:"guns" yaml:"guns"`
	Repeat    int           `json:"repeat" yaml:"repeat"`
	StartTime time.Time     `json:"startTime" yaml:"startTime"`
	EndTime   time.Time     `json:"endTime" yaml:"endTime"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Results   []ShootResult `json:"results,omitempty" yaml:"results,omitempty"`
}
