package forecast

import (
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/nws-forecast/internal/models"
)

// Builder converts service periods into the forecast model.
type Builder struct {
	logger *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build returns one record per period, in input order. Day classification
// failures leave the record's day unknown and are collected into the returned
// error, which is informational: the model is always complete.
func (b *Builder) Build(periods []Period) (models.Model, error) {
	model := make(models.Model, 0, len(periods))
	var errs error

	for i, p := range periods {
		record := models.Record{
			StartTime:        deref(p.StartTime),
			EndTime:          deref(p.EndTime),
			Name:             deref(p.Name),
			ShortForecast:    deref(p.ShortForecast),
			DetailedForecast: deref(p.DetailedForecast),
			TemperatureTrend: deref(p.TemperatureTrend),
			TemperatureUnit:  deref(p.TemperatureUnit),
			WindSpeed:        deref(p.WindSpeed),
			WindDirection:    deref(p.WindDirection),
		}

		if p.Temperature != nil && !p.Temperature.Missing {
			degrees := p.Temperature.Degrees()
			record.Temperature = &degrees
			if record.TemperatureUnit == "" {
				record.TemperatureUnit = unitFromCode(p.Temperature.UnitCode)
			}
		}

		day, err := ClassifyDay(record.StartTime)
		if err != nil {
			b.logger.Warn("Could not classify forecast period",
				zap.Int("index", i),
				zap.String("start_time", record.StartTime),
				zap.Error(err))
			errs = multierr.Append(errs, err)
		} else {
			record.Day = day
		}

		model = append(model, record)
	}

	b.logger.Debug("Forecast model built",
		zap.Int("records", len(model)),
		zap.Int("unclassified", len(multierr.Errors(errs))))

	return model, errs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// unitFromCode maps WMO unit codes such as "wmoUnit:degC" to "C"/"F".
func unitFromCode(code string) string {
	switch {
	case strings.HasSuffix(code, "degC"):
		return "C"
	case strings.HasSuffix(code, "degF"):
		return "F"
	default:
		return ""
	}
}
