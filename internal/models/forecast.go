package models

import (
	"encoding/json"
	"time"

	"github.com/bobby-s-dev/nws-forecast/internal/geo"
)

// UnknownDay marks a record whose start time could not be classified.
const UnknownDay = 0

// Record is one forecast period as shown to the user.
type Record struct {
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time,omitempty"`
	Day              int    `json:"day"`
	Name             string `json:"name"`
	ShortForecast    string `json:"short_forecast"`
	DetailedForecast string `json:"detailed_forecast"`
	Temperature      *int   `json:"temperature,omitempty"`
	TemperatureTrend string `json:"temperature_trend,omitempty"`
	TemperatureUnit  string `json:"temperature_unit,omitempty"`
	WindSpeed        string `json:"wind_speed,omitempty"`
	WindDirection    string `json:"wind_direction,omitempty"`
}

// DayKnown reports whether the record was assigned a day bucket.
func (r Record) DayKnown() bool {
	return r.Day != UnknownDay
}

// Model is the ordered sequence of records from one fetch.
type Model []Record

// Snapshot is the unit the forecast store swaps on every successful fetch.
type Snapshot struct {
	FetchID     string          `json:"fetch_id"`
	Coordinates geo.Coordinates `json:"coordinates"`
	URL         string          `json:"url"`
	FetchedAt   time.Time       `json:"fetched_at"`
	Model       Model           `json:"model"`
	Raw         json.RawMessage `json:"-"`
}
