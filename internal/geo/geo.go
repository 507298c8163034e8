// Package geo resolves the coordinate a forecast is requested for.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrNoLocation means neither the settings nor the ambient source produced a point.
var ErrNoLocation = errors.New("no usable coordinates")

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Valid reports whether the point lies inside the usual lat/lon bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Locator is an ambient location source used when no coordinates are configured.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Parse reads a latitude/longitude pair from their textual settings.
// ok is false if either value is empty or not numeric.
func Parse(latitude, longitude string) (Coordinates, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latitude), 64)
	if err != nil {
		return Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(longitude), 64)
	if err != nil {
		return Coordinates{}, false
	}
	c := Coordinates{Latitude: lat, Longitude: lon}
	return c, c.Valid()
}

// Resolve returns the configured coordinates, falling back to the ambient
// locator. A nil locator means no ambient source is available.
func Resolve(ctx context.Context, latitude, longitude string, locator Locator, logger *zap.Logger) (Coordinates, error) {
	if c, ok := Parse(latitude, longitude); ok {
		return c, nil
	}

	logger.Debug("Configured coordinates unusable",
		zap.String("latitude", latitude),
		zap.String("longitude", longitude))

	if locator == nil {
		return Coordinates{}, ErrNoLocation
	}

	c, err := locator.Locate(ctx)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: ambient location lookup failed: %v", ErrNoLocation, err)
	}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("%w: ambient location out of range: %s", ErrNoLocation, c)
	}

	logger.Info("Using ambient location", zap.Stringer("coordinates", c))
	return c, nil
}
