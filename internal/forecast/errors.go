package forecast

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the forecast pipeline. Callers wrap them with
// fmt.Errorf("...: %w") and test with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	ErrShape         = errors.New("unexpected response shape")
	ErrParse         = errors.New("unparseable timestamp")

	// ErrServerUnavailable is a 5xx answer from the forecast service.
	ErrServerUnavailable = fmt.Errorf("%w: forecast server unavailable", ErrTransport)

	// ErrNotFound means the envelope has no properties object.
	ErrNotFound = fmt.Errorf("%w: properties not found, API shape may have changed", ErrShape)
)

// Diagnostic turns a pipeline error into the single line shown to the user.
func Diagnostic(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrServerUnavailable):
		return "Forecast server unavailable (server unhappy), try again later: " + err.Error()
	case errors.Is(err, ErrTransport):
		return "Could not retrieve forecast: " + err.Error()
	case errors.Is(err, ErrNotFound):
		return "No forecast periods in response; the API shape may have changed"
	case errors.Is(err, ErrShape):
		return "Unexpected forecast response: " + err.Error()
	case errors.Is(err, ErrConfiguration):
		return "Configuration problem: " + err.Error()
	case errors.Is(err, ErrParse):
		return "Some forecast times could not be read: " + err.Error()
	default:
		return "Forecast failed: " + err.Error()
	}
}
