package shooter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wesleyorama2/salvo/internal/bullet"
	"github.com/wesleyorama2/salvo/internal/http"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Salvo fires one bullet from several guns at once.
type Salvo struct {
	bullet    *bullet.Bullet
	client    *http.Client
	guns      int
	repeat    int
	delay     time.Duration
	rate      float64
	inspector *Inspector
	logger    *slog.Logger
	onShot    func(*ShootResult)
}

// Option configures a Salvo.
type Option func(*Salvo)

// WithGuns sets the number of concurrent guns.
func WithGuns(guns int) Option {
	return func(s *Salvo) { s.guns = guns }
}

// WithRepeat sets the number of shots per gun.
func WithRepeat(repeat int) Option {
	return func(s *Salvo) { s.repeat = repeat }
}

// WithDelay sets the pause after each shot of a gun.
func WithDelay(delay time.Duration) Option {
	return func(s *Salvo) { s.delay = delay }
}

// WithRate caps the total shots per second across all guns.
func WithRate(perSecond float64) Option {
	return func(s *Salvo) { s.rate = perSecond }
}

// WithClient sets the HTTP client shared by all guns.
func WithClient(client *http.Client) Option {
	return func(s *Salvo) { s.client = client }
}

// WithInspector sets the response inspector.
func WithInspector(inspector *Inspector) Option {
	return func(s *Salvo) { s.inspector = inspector }
}

// WithLogger sets the logger used by the guns.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Salvo) { s.logger = logger }
}

// WithShotHook registers fn to be called after every shot. Calls are
// serialized, so fn needs no locking of its own.
func WithShotHook(fn func(*ShootResult)) Option {
	return func(s *Salvo) { s.onShot = fn }
}

// NewSalvo creates a salvo of one gun firing b once, then applies options.
func NewSalvo(b *bullet.Bullet, options ...Option) *Salvo {
	s := &Salvo{
		bullet: b,
		guns:   1,
		repeat: 1,
		logger: discardLogger,
	}
	for _, option := range options {
		option(s)
	}
	if s.client == nil {
		s.client = http.NewClient(
			http.WithBaseURL(b.URL),
			http.WithTransport(http.PooledTransport(s.guns)),
		)
	}
	return s
}

// Run fires every gun and waits for all of them. Results are ordered by gun
// and then by shot. When ctx is cancelled Run returns the shots fired so far
// together with the context error.
func (s *Salvo) Run(ctx context.Context) (*Run, error) {
	if s.guns < 1 {
		return nil, errors.New("salvo needs at least one gun")
	}
	if s.repeat < 1 {
		return nil, errors.New("salvo needs at least one shot per gun")
	}

	var limiter *rate.Limiter
	if s.rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.rate), 1)
	}

	run := &Run{
		ID:        uuid.New().String(),
		Method:    s.bullet.Method,
		URL:       s.bullet.URL,
		Guns:      s.guns,
		Repeat:    s.repeat,
		StartTime: time.Now(),
	}
	s.logger.Info("salvo started",
		slog.String("run", run.ID),
		slog.Int("guns", s.guns),
		slog.Int("repeat", s.repeat),
	)

	var onShot func(*ShootResult)
	if s.onShot != nil {
		var mu sync.Mutex
		onShot = func(res *ShootResult) {
			mu.Lock()
			defer mu.Unlock()
			s.onShot(res)
		}
	}

	perGun := make([][]ShootResult, s.guns)
	var wg sync.WaitGroup
	for i := 0; i < s.guns; i++ {
		gun := &Gun{
			ID:        i,
			Bullet:    s.bullet,
			Client:    s.client,
			Repeat:    s.repeat,
			Delay:     s.delay,
			Limiter:   limiter,
			Inspector: s.inspector,
			Logger:    s.logger,
			OnShot:    onShot,
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			perGun[idx] = gun.Fire(ctx)
		}(i)
	}
	wg.Wait()

	run.EndTime = time.Now()
	run.Duration = run.EndTime.Sub(run.StartTime)
	run.Results = make([]ShootResult, 0, s.guns*s.repeat)
	for _, results := range perGun {
		run.Results = append(run.Results, results...)
	}

	s.logger.Info("salvo finished",
		slog.String("run", run.ID),
		slog.Int("shots", len(run.Results)),
		slog.Duration("duration", run.Duration),
	)

	return run, ctx.Err()
}
