package client

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/nws-forecast/internal/geo"
)

const DefaultIPLocationURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// IPLocator is the ambient location source: it asks an IP geolocation
// service where this machine is.
type IPLocator struct {
	*BaseClient
	url string
}

type ipLocationResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPLocator(url string, base *BaseClient) *IPLocator {
	if url == "" {
		url = DefaultIPLocationURL
	}
	return &IPLocator{BaseClient: base, url: url}
}

func (l *IPLocator) Locate(ctx context.Context) (geo.Coordinates, error) {
	data, err := l.Get(ctx, l.url, "application/json")
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("failed to fetch location: %w", err)
	}

	var response ipLocationResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return geo.Coordinates{}, fmt.Errorf("failed to parse location response: %w", err)
	}

	if response.Status != "" && response.Status != "success" {
		return geo.Coordinates{}, fmt.Errorf("location lookup failed: %s", response.Message)
	}

	coords := geo.Coordinates{Latitude: response.Lat, Longitude: response.Lon}
	l.logger.Debug("Ambient location resolved", zap.Stringer("coordinates", coords))
	return coords, nil
}

var _ geo.Locator = (*IPLocator)(nil)
