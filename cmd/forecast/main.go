package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bobby-s-dev/nws-forecast/internal/api"
	"github.com/bobby-s-dev/nws-forecast/internal/config"
	"github.com/bobby-s-dev/nws-forecast/internal/forecast"
	"github.com/bobby-s-dev/nws-forecast/internal/geo"
	"github.com/bobby-s-dev/nws-forecast/internal/scheduler"
	"github.com/bobby-s-dev/nws-forecast/internal/services"
	"github.com/bobby-s-dev/nws-forecast/internal/tui"
	"github.com/bobby-s-dev/nws-forecast/pkg/client"
)

func main() {
	once := flag.Bool("once", false, "Fetch once, print the forecast and exit")
	styleName := flag.String("style", "", "Initial style: standard, extended or terse")
	flag.Parse()

	// Bootstrap logger until the configured one is built
	bootstrap, _ := zap.NewProduction()
	zap.ReplaceGlobals(bootstrap)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *styleName != "" {
		cfg.Display.InitialStyle = *styleName
	}

	// The view owns the terminal, so interactive runs log to a file
	logger, err := newLogger(cfg, !*once)
	if err != nil {
		bootstrap.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	logger.Info("Starting forecast viewer", zap.Bool("once", *once))

	style, err := forecast.ParseStyle(cfg.Display.InitialStyle)
	if err != nil {
		logger.Fatal("Invalid display style", zap.Error(err))
	}
	cycle := forecast.NewCycle(style)

	clientConfig := client.ClientConfig{
		Timeout:        cfg.Forecast.Timeout,
		UserAgent:      cfg.Forecast.UserAgent,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}
	nws := client.NewNWSClient(cfg.Forecast.BaseURL, cfg.Forecast.Hourly, clientConfig, logger)

	var locator geo.Locator
	if cfg.Ambient.Enabled {
		locator = client.NewIPLocator(cfg.Ambient.URL, client.NewBaseClient("ambient-location", clientConfig, logger))
	}
	coordinates := func(ctx context.Context) (geo.Coordinates, error) {
		return geo.Resolve(ctx, cfg.Location.Latitude, cfg.Location.Longitude, locator, logger)
	}

	store := services.NewForecastStore(logger)
	controller := services.NewController(nws, store,
		services.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst), logger)

	if *once {
		if err := printOnce(controller, cycle, coordinates, cfg.Forecast.Timeout); err != nil {
			fmt.Fprintln(os.Stderr, forecast.Diagnostic(err))
			os.Exit(1)
		}
		return
	}

	model := tui.New(controller, cycle, coordinates, cfg.Display.Title, logger)
	program := tui.NewProgram(model)
	commands := tui.NewCommands(program)

	// Periodic refresh
	var schedule api.StatusSource
	if cfg.Scheduler.Refresh != "" {
		refresh, err := scheduler.NewScheduler(commands, cfg.Scheduler.Refresh, logger)
		if err != nil {
			logger.Fatal("Failed to initialize scheduler", zap.Error(err))
		}
		refresh.Start()
		defer refresh.Stop()
		schedule = refresh
	}

	// Control server
	if cfg.Control.Enabled {
		handler := api.NewHandler(controller, cycle, commands, schedule, logger)
		app := api.NewApp(handler, cfg.Control.ReadTimeout, cfg.Control.WriteTimeout, logger)

		go func() {
			addr := ":" + cfg.Control.Port
			logger.Info("Starting control server", zap.String("address", addr))

			if err := app.Listen(addr); err != nil {
				logger.Error("Control server stopped", zap.Error(err))
			}
		}()

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(ctx); err != nil {
				logger.Error("Control server shutdown failed", zap.Error(err))
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		logger.Error("Forecast view failed", zap.Error(err))
	}

	logger.Info("Forecast viewer stopped")
}

func printOnce(controller *services.Controller, cycle *forecast.Cycle, coordinates tui.CoordinateSource, timeout time.Duration) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	coords, err := coordinates(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", forecast.ErrConfiguration, err)
	}

	snapshot, fetchErr := controller.Fetch(ctx, coords)
	if fetchErr != nil && !errors.Is(fetchErr, forecast.ErrParse) {
		return fetchErr
	}

	lines, err := forecast.Render(snapshot.Model, cycle.Active())
	if err != nil {
		return err
	}
	fmt.Println(forecast.Text(lines))
	if fetchErr != nil {
		fmt.Fprintln(os.Stderr, forecast.Diagnostic(fetchErr))
	}
	return nil
}

func newLogger(cfg *config.Config, toFile bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if toFile && cfg.Log.File != "" {
		zapCfg.OutputPaths = []string{cfg.Log.File}
		zapCfg.ErrorOutputPaths = []string{cfg.Log.File}
	}
	return zapCfg.Build()
}
