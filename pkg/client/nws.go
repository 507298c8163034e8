package client

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/nws-forecast/internal/geo"
)

const DefaultNWSURL = "https://api.weather.gov"

// NWSClient requests point forecasts from the National Weather Service.
type NWSClient struct {
	*BaseClient
	baseURL string
	hourly  bool
}

func NewNWSClient(baseURL string, hourly bool, config ClientConfig, logger *zap.Logger) *NWSClient {
	return NewNWSClientWithBase(NewBaseClient("nws", config, logger), baseURL, hourly)
}

func NewNWSClientWithBase(base *BaseClient, baseURL string, hourly bool) *NWSClient {
	if baseURL == "" {
		baseURL = DefaultNWSURL
	}
	return &NWSClient{
		BaseClient: base,
		baseURL:    strings.TrimRight(baseURL, "/"),
		hourly:     hourly,
	}
}

// ForecastURL builds <base>/points/<lat>,<lon>/forecast[/hourly].
func ForecastURL(baseURL string, coords geo.Coordinates, hourly bool) string {
	url := fmt.Sprintf("%s/points/%.4f,%.4f/forecast",
		strings.TrimRight(baseURL, "/"), coords.Latitude, coords.Longitude)
	if hourly {
		url += "/hourly"
	}
	return url
}

func (c *NWSClient) ForecastURL(coords geo.Coordinates) string {
	return ForecastURL(c.baseURL, coords, c.hourly)
}

// GetForecast returns the raw forecast body for coords.
func (c *NWSClient) GetForecast(ctx context.Context, coords geo.Coordinates) ([]byte, error) {
	url := c.ForecastURL(coords)
	c.logger.Debug("Requesting forecast", zap.String("url", url))

	data, err := c.Get(ctx, url, "application/geo+json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	return data, nil
}
