package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/salvo/internal/analytic"
	"github.com/wesleyorama2/salvo/internal/bullet"
	"github.com/wesleyorama2/salvo/internal/config"
	"github.com/wesleyorama2/salvo/internal/formsyntax"
	"github.com/wesleyorama2/salvo/internal/http"
	"github.com/wesleyorama2/salvo/internal/output"
	"github.com/wesleyorama2/salvo/internal/shooter"
	"github.com/wesleyorama2/salvo/internal/store"
)

func newFireCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fire [URL]",
		Short: "Fire a salvo of requests at a URL",
		Long: `Fire one request from several concurrent guns and report the results.

Quick mode:
  salvo fire https://api.example.com/login -X POST -g 10 -n 100 \
    -H 'X-Client:salvo "X-Trace":"load test"' \
    -f 'user:alice pass:secret'

Quoted keys and values are sent without their quotes.

Config file mode (flags override file values):
  salvo fire --config salvo.yaml -n 20

Watch mode fires again every time the config file is saved:
  salvo fire --config salvo.yaml --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFire,
	}

	flags := cmd.Flags()
	flags.StringP("method", "X", "", "HTTP method (default GET)")
	flags.IntP("repeat", "n", 0, "Shots fired by each gun (default 1)")
	flags.IntP("guns", "g", 0, "Number of concurrent guns (default 1)")
	flags.Duration("delay", 0, "Pause after each shot of a gun")
	flags.Float64("rate", 0, "Cap on shots per second across all guns")
	flags.StringP("header", "H", "", "Request headers in form syntax")
	flags.StringP("form", "f", "", "Form fields in form syntax")
	flags.StringP("data", "d", "", "Raw request body")
	flags.StringP("config", "c", "", "Salvo configuration file (YAML or JSON)")
	flags.StringP("output", "o", "", "Report format: text, json or yaml")
	flags.String("extract", "", "gjson path read from every response body")
	flags.String("schema", "", "JSON schema file every response body must satisfy")
	flags.String("store", "", "SQLite database that keeps every run")
	flags.Bool("watch", false, "Fire again whenever the config file changes")
	flags.DurationP("timeout", "t", 0, "Request timeout (default 30s)")

	return cmd
}

func runFire(cmd *cobra.Command, args []string) error {
	logger := loggerFor(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fire := func() error {
		cfg, err := resolveConfig(cmd, args)
		if err != nil {
			return err
		}
		return fireOnce(ctx, cmd, cfg, logger)
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return fire()
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return errors.New("--watch needs a --config file")
	}
	return watchFile(ctx, path, cmd.OutOrStdout(), logger, fire)
}

// resolveConfig loads the config file, if any, and applies the command
// line on top of it.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := &config.Config{}

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(args) == 1 {
		cfg.URL = args[0]
	}
	cfg.URL = normalizeURL(cfg.URL)

	if flags.Changed("method") {
		cfg.Method, _ = flags.GetString("method")
	}
	if flags.Changed("repeat") {
		cfg.Repeat, _ = flags.GetInt("repeat")
	}
	if flags.Changed("guns") {
		cfg.Guns, _ = flags.GetInt("guns")
	}
	if flags.Changed("delay") {
		delay, _ := flags.GetDuration("delay")
		cfg.Delay = config.Duration(delay)
	}
	if flags.Changed("rate") {
		cfg.Rate, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("header") {
		cfg.Bullet.Header, _ = flags.GetString("header")
	}
	if flags.Changed("form") {
		cfg.Bullet.Form, _ = flags.GetString("form")
	}
	if flags.Changed("data") {
		cfg.Bullet.Body, _ = flags.GetString("data")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("extract") {
		cfg.Extract, _ = flags.GetString("extract")
	}
	if flags.Changed("schema") {
		cfg.Schema, _ = flags.GetString("schema")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		cfg.Timeout = config.Duration(timeout)
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	config.ApplyDefaults(cfg)
	return cfg, nil
}

// normalizeURL adds the http scheme when it is missing.
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "http://" + rawURL
	}
	return rawURL
}

func fireOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	if err := config.Validate(cfg); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				logParseError(logger, ve.Path, ve.Err)
			}
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	parser := formsyntax.New(formsyntax.WithLogger(logger))
	b, err := bullet.Load(cfg.Method, cfg.URL, cfg.Bullet, parser)
	if err != nil {
		logParseError(logger, "bullet", err)
		return err
	}

	var schema string
	if cfg.Schema != "" {
		data, err := os.ReadFile(cfg.Schema)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		schema = string(data)
	}
	inspector, err := shooter.NewInspector(cfg.Extract, schema)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatter := output.NewFormatter(format, cfg.Verbose, !output.UseColor(out, noColor))

	client := http.NewClient(
		http.WithBaseURL(cfg.URL),
		http.WithTimeout(time.Duration(cfg.Timeout)),
		http.WithTransport(http.PooledTransport(cfg.Guns)),
	)

	options := []shooter.Option{
		shooter.WithGuns(cfg.Guns),
		shooter.WithRepeat(cfg.Repeat),
		shooter.WithDelay(time.Duration(cfg.Delay)),
		shooter.WithRate(cfg.Rate),
		shooter.WithClient(client),
		shooter.WithInspector(inspector),
		shooter.WithLogger(logger),
	}
	if cfg.Verbose && format == output.FormatText {
		options = append(options, shooter.WithShotHook(func(res *shooter.ShootResult) {
			fmt.Fprintln(out, formatter.FormatShot(res))
		}))
	}

	run, runErr := shooter.NewSalvo(b, options...).Run(ctx)
	if run == nil {
		return runErr
	}

	report, err := formatter.FormatReport(analytic.Summarize(run))
	if err != nil {
		return err
	}
	fmt.Fprint(out, report)

	if cfg.Store != "" {
		if err := saveRun(context.WithoutCancel(ctx), cfg.Store, run); err != nil {
			return err
		}
		logger.Info("run stored", slog.String("run", run.ID), slog.String("store", cfg.Store))
	}

	if runErr != nil {
		return fmt.Errorf("salvo interrupted: %w", runErr)
	}
	return nil
}

func saveRun(ctx context.Context, path string, run *shooter.Run) error {
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	return nil
}
