package forecast

import (
	"errors"
	"testing"
)

func TestExtractPeriods(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr error
	}{
		{
			name: "periods",
			body: `{"properties":{"periods":[{"number":1,"name":"Today"},{"number":2,"name":"Tonight"}]}}`,
			want: 2,
		},
		{
			name: "empty periods",
			body: `{"properties":{"periods":[]}}`,
			want: 0,
		},
		{
			name: "no periods key",
			body: `{"properties":{"updated":"2024-01-01T00:00:00Z"}}`,
			want: 0,
		},
		{
			name:    "missing properties",
			body:    `{"type":"Feature","geometry":null}`,
			wantErr: ErrNotFound,
		},
		{
			name:    "null properties",
			body:    `{"properties":null}`,
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := Decode([]byte(tc.body))
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}

			periods, err := ExtractPeriods(resp)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ExtractPeriods error = %v; want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractPeriods error: %v", err)
			}
			if periods == nil {
				t.Fatal("ExtractPeriods returned nil slice")
			}
			if len(periods) != tc.want {
				t.Errorf("got %d periods; want %d", len(periods), tc.want)
			}
		})
	}
}

func TestNotFoundIsShapeError(t *testing.T) {
	if !errors.Is(ErrNotFound, ErrShape) {
		t.Error("ErrNotFound should be a shape error")
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`<html>oops</html>`)); !errors.Is(err, ErrShape) {
		t.Errorf("Decode error = %v; want ErrShape", err)
	}
}

func TestTemperatureForms(t *testing.T) {
	body := `{"properties":{"periods":[
		{"temperature": 41},
		{"temperature": {"unitCode": "wmoUnit:degC", "value": 3.6}},
		{"temperature": null}
	]}}`

	resp, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	periods := resp.Properties.Periods

	if got := periods[0].Temperature.Degrees(); got != 41 {
		t.Errorf("bare temperature = %d; want 41", got)
	}
	if got := periods[1].Temperature.Degrees(); got != 4 {
		t.Errorf("quantitative temperature = %d; want 4", got)
	}
	if periods[1].Temperature.UnitCode != "wmoUnit:degC" {
		t.Errorf("unit code = %q", periods[1].Temperature.UnitCode)
	}
	if periods[2].Temperature != nil {
		t.Errorf("null temperature decoded as %+v", periods[2].Temperature)
	}
}

func TestUnusableTemperatureKeepsEnvelope(t *testing.T) {
	body := `{"properties":{"periods":[
		{"name": "Today", "temperature": 40},
		{"name": "Tonight", "temperature": {"unitCode": "wmoUnit:degF", "value": null}},
		{"name": "Monday", "temperature": "52"},
		{"name": "Monday Night", "temperature": "cold"},
		{"name": "Tuesday", "temperature": {"unitCode": "wmoUnit:degC"}}
	]}}`

	resp, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	periods, err := ExtractPeriods(resp)
	if err != nil {
		t.Fatalf("ExtractPeriods error: %v", err)
	}
	if len(periods) != 5 {
		t.Fatalf("got %d periods; want 5", len(periods))
	}

	tests := []struct {
		name        string
		period      Period
		wantMissing bool
		wantDegrees int
	}{
		{"bare number", periods[0], false, 40},
		{"null value", periods[1], true, 0},
		{"numeric string", periods[2], false, 52},
		{"text", periods[3], true, 0},
		{"absent value", periods[4], true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			temp := tc.period.Temperature
			if temp == nil {
				t.Fatal("temperature not decoded")
			}
			if temp.Missing != tc.wantMissing {
				t.Errorf("Missing = %v; want %v", temp.Missing, tc.wantMissing)
			}
			if !tc.wantMissing && temp.Degrees() != tc.wantDegrees {
				t.Errorf("Degrees() = %d; want %d", temp.Degrees(), tc.wantDegrees)
			}
		})
	}

	if periods[1].Temperature.UnitCode != "wmoUnit:degF" {
		t.Errorf("unit code = %q", periods[1].Temperature.UnitCode)
	}
}
