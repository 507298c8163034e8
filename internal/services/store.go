package services

import (
	"sync"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/nws-forecast/internal/models"
)

// ForecastStore holds the most recent forecast snapshot. Readers always see
// a complete (model, raw) pair.
type ForecastStore struct {
	mu       sync.RWMutex
	snapshot models.Snapshot
	filled   bool
	replaced int
	logger   *zap.Logger
}

func NewForecastStore(logger *zap.Logger) *ForecastStore {
	return &ForecastStore{logger: logger}
}

// Replace swaps the stored snapshot for s.
func (s *ForecastStore) Replace(snapshot models.Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.filled = true
	s.replaced++
	s.mu.Unlock()

	s.logger.Debug("Forecast stored",
		zap.String("fetch_id", snapshot.FetchID),
		zap.Int("records", len(snapshot.Model)))
}

// Current returns the stored snapshot; ok is false before the first fetch.
func (s *ForecastStore) Current() (models.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.filled
}

func (s *ForecastStore) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"filled":     s.filled,
		"replaced":   s.replaced,
		"records":    len(s.snapshot.Model),
		"fetch_id":   s.snapshot.FetchID,
		"fetched_at": s.snapshot.FetchedAt,
	}
}
