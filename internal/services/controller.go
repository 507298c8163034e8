package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bobby-s-dev/nws-forecast/internal/forecast"
	"github.com/bobby-s-dev/nws-forecast/internal/geo"
	"github.com/bobby-s-dev/nws-forecast/internal/models"
	"github.com/bobby-s-dev/nws-forecast/pkg/client"
)

type ForecastClient interface {
	GetForecast(ctx context.Context, coords geo.Coordinates) ([]byte, error)
	ForecastURL(coords geo.Coordinates) string
}

// Fetch identifies one forecast request through its lifetime.
type Fetch struct {
	ID          string
	Coordinates geo.Coordinates
	URL         string
	StartedAt   time.Time
}

// Controller runs the forecast pipeline: request, extract, build, store.
// Request is the part that may block and is meant to run off the UI loop;
// Complete runs the rest synchronously.
type Controller struct {
	client  ForecastClient
	store   *ForecastStore
	builder *forecast.Builder
	limiter *rate.Limiter
	logger  *zap.Logger

	mu           sync.RWMutex
	lastFetch    time.Time
	successCount int
	failureCount int
	lastError    string
}

// NewController builds a controller. A nil limiter disables rate limiting.
func NewController(c ForecastClient, store *ForecastStore, limiter *rate.Limiter, logger *zap.Logger) *Controller {
	return &Controller{
		client:  c,
		store:   store,
		builder: forecast.NewBuilder(logger),
		limiter: limiter,
		logger:  logger,
	}
}

// NewLimiter returns a limiter for rps requests per second, nil when rps <= 0.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (c *Controller) Store() *ForecastStore {
	return c.store
}

// Begin starts a new fetch for coords.
func (c *Controller) Begin(coords geo.Coordinates) Fetch {
	return Fetch{
		ID:          uuid.NewString(),
		Coordinates: coords,
		URL:         c.client.ForecastURL(coords),
		StartedAt:   time.Now(),
	}
}

// Request performs the HTTP part of a fetch and returns the response body.
func (c *Controller) Request(ctx context.Context, f Fetch) ([]byte, error) {
	c.mu.Lock()
	c.lastFetch = f.StartedAt
	c.mu.Unlock()

	c.logger.Info("Fetching forecast",
		zap.String("fetch_id", f.ID),
		zap.String("url", f.URL))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.fail(f, fmt.Errorf("%w: rate limit wait canceled: %w", forecast.ErrTransport, err))
		}
	}

	body, err := c.client.GetForecast(ctx, f.Coordinates)
	if err != nil {
		return nil, c.fail(f, classifyTransport(err))
	}
	return body, nil
}

// Complete turns a response body into a model and stores it. Shape errors
// leave the previous snapshot in place. An error wrapping forecast.ErrParse
// is informational: the snapshot was stored and is returned with it.
func (c *Controller) Complete(f Fetch, body []byte) (models.Snapshot, error) {
	resp, err := forecast.Decode(body)
	if err != nil {
		return models.Snapshot{}, c.fail(f, err)
	}

	periods, err := forecast.ExtractPeriods(resp)
	if err != nil {
		return models.Snapshot{}, c.fail(f, err)
	}

	model, buildErr := c.builder.Build(periods)
	if buildErr != nil {
		unclassified := len(multierr.Errors(buildErr))
		c.logger.Warn("Forecast built with unclassified periods",
			zap.String("fetch_id", f.ID),
			zap.Int("unclassified", unclassified),
			zap.Error(buildErr))
		buildErr = fmt.Errorf("%d of %d periods: %w", unclassified, len(model), buildErr)
	}

	snapshot := models.Snapshot{
		FetchID:     f.ID,
		Coordinates: f.Coordinates,
		URL:         f.URL,
		FetchedAt:   time.Now(),
		Model:       model,
		Raw:         append([]byte(nil), body...),
	}
	c.store.Replace(snapshot)

	c.mu.Lock()
	c.successCount++
	c.lastError = ""
	c.mu.Unlock()

	c.logger.Info("Forecast updated",
		zap.String("fetch_id", f.ID),
		zap.Int("periods", len(model)),
		zap.Duration("duration", time.Since(f.StartedAt)))

	return snapshot, buildErr
}

// Fetch runs a whole fetch for non-interactive callers. Errors follow
// Complete.
func (c *Controller) Fetch(ctx context.Context, coords geo.Coordinates) (models.Snapshot, error) {
	f := c.Begin(coords)
	body, err := c.Request(ctx, f)
	if err != nil {
		return models.Snapshot{}, err
	}
	return c.Complete(f, body)
}

func (c *Controller) fail(f Fetch, err error) error {
	c.mu.Lock()
	c.failureCount++
	c.lastError = err.Error()
	c.mu.Unlock()

	c.logger.Error("Forecast fetch failed",
		zap.String("fetch_id", f.ID),
		zap.String("url", f.URL),
		zap.Error(err))
	return err
}

// classifyTransport maps client errors onto the pipeline's error kinds.
func classifyTransport(err error) error {
	var statusErr *client.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.ServerError():
		return fmt.Errorf("%w: %w", forecast.ErrServerUnavailable, err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit open, forecast service failing: %w", forecast.ErrTransport, err)
	default:
		return fmt.Errorf("%w: %w", forecast.ErrTransport, err)
	}
}

func (c *Controller) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]interface{}{
		"last_fetch_time": c.lastFetch,
		"success_count":   c.successCount,
		"failure_count":   c.failureCount,
		"last_error":      c.lastError,
		"store":           c.store.GetStats(),
	}
	if b, ok := c.client.(breakerStater); ok {
		stats["circuit_breaker"] = b.State()
	}
	return stats
}

// breakerStater is implemented by clients that sit behind a circuit breaker.
type breakerStater interface {
	State() string
}
