package services

import (
	"context"
	"fmt"

	"github.com/bobby-s-dev/nws-forecast/internal/geo"
	"github.com/bobby-s-dev/nws-forecast/pkg/client"
)

type fakeClient struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeClient) GetForecast(ctx context.Context, coords geo.Coordinates) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func (f *fakeClient) ForecastURL(coords geo.Coordinates) string {
	return client.ForecastURL("https://api.weather.gov", coords, true)
}

func serverError(code int) error {
	return fmt.Errorf("failed to fetch forecast: %w", &client.StatusError{Code: code, URL: "https://api.weather.gov/points/1.0000,2.0000/forecast/hourly"})
}

const forecastBody = `{
  "properties": {
    "updated": "2024-02-19T10:00:00+00:00",
    "periods": [
      {"number": 1, "name": "Monday", "startTime": "2024-02-19T06:00:00+00:00", "endTime": "2024-02-19T18:00:00+00:00",
       "temperature": 40, "temperatureUnit": "F", "shortForecast": "Sunny", "detailedForecast": "Sunny, with a high near 40."},
      {"number": 2, "name": "Monday Night", "startTime": "2024-02-19T18:00:00+00:00", "endTime": "2024-02-20T06:00:00+00:00",
       "temperature": 25, "temperatureUnit": "F", "shortForecast": "Clear", "detailedForecast": "Clear, with a low around 25."}
    ]
  }
}`
