package forecast

import (
	"testing"
	"time"
)

// withLocal sets the local zone for the duration of a test.
func withLocal(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func strp(s string) *string { return &s }

func intp(i int) *int { return &i }
