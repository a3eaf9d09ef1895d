package shooter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/wesleyorama2/salvo/internal/bullet"
	"github.com/wesleyorama2/salvo/internal/http"
)

// Gun is one firing loop. It fires its bullet Repeat times, one shot after
// the other, pausing Delay after each shot.
type Gun struct {
	ID        int
	Bullet    *bullet.Bullet
	Client    *http.Client
	Repeat    int
	Delay     time.Duration
	Limiter   *rate.Limiter
	Inspector *Inspector
	Logger    *slog.Logger
	// OnShot, if set, sees every result as soon as it is recorded.
	OnShot func(*ShootResult)
}

// Fire runs the loop and returns one result per shot fired. It stops early,
// returning the shots fired so far, when ctx is done.
func (g *Gun) Fire(ctx context.Context) []ShootResult {
	logger := g.Logger
	if logger == nil {
		logger = discardLogger
	}
	logger = logger.With(slog.Int("gun", g.ID))
	logger.Info("start shooting", slog.String("url", g.Bullet.URL))

	req := g.Bullet.Request()
	results := make([]ShootResult, 0, g.Repeat)

	for i := 0; i < g.Repeat; i++ {
		if ctx.Err() != nil {
			break
		}
		if g.Limiter != nil {
			if err := g.Limiter.Wait(ctx); err != nil {
				break
			}
		}

		res := g.shoot(ctx, req, i)
		if ctx.Err() != nil && res.Err {
			// The shot was cut short by cancellation, not by the target.
			break
		}
		logger.Debug("shot",
			slog.Int("iter", i),
			slog.Bool("err", res.Err),
			slog.Int("status", res.StatusCode),
			slog.Duration("latency", res.Latency),
			slog.Duration("dns", res.Timing.DNSLookupTime),
			slog.Duration("connect", res.Timing.TCPConnectTime),
			slog.Duration("tls", res.Timing.TLSHandshakeTime),
			slog.Duration("ttfb", res.Timing.TimeToFirstByte),
		)
		if g.OnShot != nil {
			g.OnShot(&res)
		}
		results = append(results, res)

		if g.Delay > 0 {
			logger.Debug("delay", slog.Int("iter", i), slog.Duration("delay", g.Delay))
			select {
			case <-ctx.Done():
			case <-time.After(g.Delay):
			}
		}
	}

	return results
}

func (g *Gun) shoot(ctx context.Context, req *http.Request, iter int) ShootResult {
	res := ShootResult{
		GunID:     g.ID,
		IterID:    iter,
		Timestamp: time.Now(),
	}

	resp, err := g.Client.Do(ctx, req)
	res.Latency = time.Since(res.Timestamp)
	if err != nil {
		return g.failed(res, req.Method, err)
	}

	res.StatusCode = resp.StatusCode
	res.Timing = resp.Timing
	body, err := resp.GetBody()
	if err != nil {
		return g.failed(res, req.Method, fmt.Errorf("read body: %w", err))
	}
	res.Bytes = int64(len(body))
	res.Extracted = g.Inspector.Extract(body)

	if err := g.Inspector.Validate(body); err != nil {
		return g.failed(res, req.Method, err)
	}

	res.Result = fmt.Sprintf("GUN#%d[%d]|%s->Got in %d ms|%s", g.ID, res.IterID, req.Method, res.LatencyMillis(), body)
	return res
}

func (g *Gun) failed(res ShootResult, method string, err error) ShootResult {
	res.Err = true
	res.Result = fmt.Sprintf("GUN#%d[%d]|%s->Err %v", g.ID, res.IterID, method, err)
	return res
}
