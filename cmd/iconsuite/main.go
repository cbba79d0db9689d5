package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/szxp/iconsuite"
	"github.com/szxp/iconsuite/config"
	"github.com/szxp/iconsuite/imagemagick"
	"github.com/szxp/iconsuite/lanczos"
)

// version will be set while building
var version string

// buildTime will be set while building
var buildTime string

type options struct {
	Config   string `long:"config" short:"c" env:"ICONSUITE_CONFIG" description:"TOML or YAML config file"`
	Custom   string `long:"custom" env:"ICONSUITE_CUSTOM_SIZES" description:"Extra sizes, comma separated (e.g. 24,40,96)"`
	Filter   string `long:"filter" env:"ICONSUITE_FILTER" description:"catmullrom, bilinear, approxbilinear, lanczos or imagemagick"`
	Out      string `long:"out" short:"o" env:"ICONSUITE_OUT" description:"Directory for icon-<size>.png files"`
	Bundle   string `long:"bundle" short:"b" env:"ICONSUITE_BUNDLE" description:"Write a ZIP bundle to this path"`
	Password string `long:"password" env:"ICONSUITE_BUNDLE_PASSWORD" description:"Encrypt bundle entries"`
	Favicon  bool   `long:"favicon" description:"Add favicon.ico to the bundle"`
	Serve    string `long:"serve" env:"ICONSUITE_HTTP_ADDR" description:"Serve a local preview on this address"`
	Watch    bool   `long:"watch" short:"w" description:"Regenerate when the source file changes"`
	LogLevel string `long:"log-level" env:"ICONSUITE_LOG_LEVEL" description:"TRACE, DEBUG, INFO, WARN or ERROR"`

	Args struct {
		Source string `positional-arg-name:"image" required:"yes"`
	} `positional-args:"yes"`
}

func main() {
	_ = godotenv.Load()

	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Output:          os.Stdout,
		Level:           hclog.LevelFromString(cfg.Log.Level),
		IncludeLocation: true,
	}).With("appVersion", version)

	logger.Info("Build info", "time", buildTime)

	err = run(logger, opts, cfg)
	if err != nil {
		logger.Error("Failed. Exit now", "err", err)
		os.Exit(1)
	}
	logger.Info("Exit normally")
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		cfg, err = config.Load(opts.Config)
		if err != nil {
			return cfg, err
		}
	}
	if opts.Filter != "" {
		cfg.Filter = opts.Filter
	}
	if opts.Out != "" {
		cfg.Output.Dir = opts.Out
	}
	if opts.Bundle != "" {
		cfg.Output.Bundle = opts.Bundle
	}
	if opts.Password != "" {
		cfg.Output.Password = opts.Password
	}
	if opts.Favicon {
		cfg.Output.Favicon = true
	}
	if opts.Serve != "" {
		cfg.Preview.Addr = opts.Serve
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, cfg.Validate()
}

func newResampler(logger hclog.Logger, filter string) (iconsuite.Resampler, error) {
	switch filter {
	case config.FilterLanczos:
		return lanczos.Resampler{}, nil
	case config.FilterImageMagick:
		ver, err := imagemagick.Version()
		if err != nil {
			return nil, fmt.Errorf("imagemagick not available: %w", err)
		}
		logger.Debug("ImageMagick", "version", ver)
		return &imagemagick.Resampler{}, nil
	}
	return iconsuite.NewDrawResampler(filter)
}

func run(logger hclog.Logger, opts options, cfg config.Config) error {
	resampler, err := newResampler(logger, cfg.Filter)
	if err != nil {
		return err
	}
	compression, err := iconsuite.CompressionLevel(cfg.Compression)
	if err != nil {
		return err
	}

	ws := iconsuite.NewWorkspace(iconsuite.WorkspaceConfig{
		Decoder:    &iconsuite.Decoder{MaxPixels: cfg.MaxPixels},
		Normalizer: &iconsuite.Normalizer{MaxSide: cfg.MaxSide},
		Engine:     &iconsuite.Engine{Resampler: resampler, Compression: compression},
		Logger:     logger.Named("workspace"),
	})
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Error("Release workspace", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g := &generator{
		logger: logger,
		ws:     ws,
		cfg:    cfg,
		custom: opts.Custom,
		source: opts.Args.Source,
	}
	if err := g.regenerate(ctx); err != nil {
		return err
	}

	if cfg.Preview.Addr == "" && !opts.Watch {
		return nil
	}

	var tasks []func(context.Context) error
	if opts.Watch {
		tasks = append(tasks, g.watch)
	}
	if cfg.Preview.Addr != "" {
		tasks = append(tasks, func(ctx context.Context) error {
			return serve(ctx, logger, ws, cfg)
		})
	}

	err = supervise(ctx, tasks...)
	if ctx.Err() != nil {
		logger.Info("Signal received")
	}
	return err
}

// supervise runs tasks until ctx is done or one of them fails, and returns
// only after every task has returned.
func supervise(ctx context.Context, tasks ...func(context.Context) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		eg.Go(func() error { return task(ctx) })
	}
	return eg.Wait()
}

func serve(ctx context.Context, logger hclog.Logger, ws *iconsuite.Workspace, cfg config.Config) error {
	handler, err := iconsuite.NewServer(iconsuite.ServerConfig{
		Workspace: ws,
		Bundle: iconsuite.BundleOptions{
			Password: cfg.Output.Password,
			Favicon:  cfg.Output.Favicon,
		},
		Logger: logger.Named("HTTP server"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Preview.Addr,
		Handler: handler,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("HTTP server Shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Preview", "addr", cfg.Preview.Addr)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	<-idleConnsClosed
	return nil
}
