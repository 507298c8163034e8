package forecast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Response is the forecast envelope returned by the points forecast endpoint.
// Only the fields the model needs are decoded; everything is optional here and
// validated once by ExtractPeriods.
type Response struct {
	Properties *Properties `json:"properties"`
}

// Properties holds the forecast body.
type Properties struct {
	Updated string   `json:"updated"`
	Units   string   `json:"units"`
	Periods []Period `json:"periods"`
}

// Period is a single time-bounded forecast entry as sent by the service.
type Period struct {
	Number           int          `json:"number"`
	Name             *string      `json:"name"`
	StartTime        *string      `json:"startTime"`
	EndTime          *string      `json:"endTime"`
	IsDaytime        *bool        `json:"isDaytime"`
	Temperature      *Temperature `json:"temperature"`
	TemperatureUnit  *string      `json:"temperatureUnit"`
	TemperatureTrend *string      `json:"temperatureTrend"`
	WindSpeed        *string      `json:"windSpeed"`
	WindDirection    *string      `json:"windDirection"`
	ShortForecast    *string      `json:"shortForecast"`
	DetailedForecast *string      `json:"detailedForecast"`
}

// Temperature accepts both a bare number and the quantitative value object
// ({"unitCode": "wmoUnit:degC", "value": 3.2}) the service can send. A null
// or unreadable value leaves the reading Missing instead of failing the
// envelope.
type Temperature struct {
	Value    float64
	UnitCode string
	Missing  bool
}

// UnmarshalJSON decodes either temperature form.
func (t *Temperature) UnmarshalJSON(data []byte) error {
	*t = Temperature{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var q struct {
			UnitCode string          `json:"unitCode"`
			Value    json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &q); err != nil {
			return err
		}
		t.UnitCode = q.UnitCode
		data = bytes.TrimSpace(q.Value)
	}
	t.Value, t.Missing = reading(data)
	return nil
}

// reading parses a number, or a number sent as a string.
func reading(data []byte) (float64, bool) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, true
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		return v, false
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, false
		}
	}
	return 0, true
}

// Degrees rounds the reading to whole degrees.
func (t Temperature) Degrees() int {
	return int(math.Round(t.Value))
}

// Decode parses a response body into the typed envelope.
func Decode(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return &resp, nil
}

// ExtractPeriods returns the period list, or ErrNotFound when the envelope
// has no properties object. An absent periods list yields an empty slice.
func ExtractPeriods(resp *Response) ([]Period, error) {
	if resp == nil || resp.Properties == nil {
		return nil, ErrNotFound
	}
	if resp.Properties.Periods == nil {
		return []Period{}, nil
	}
	return resp.Properties.Periods, nil
}
