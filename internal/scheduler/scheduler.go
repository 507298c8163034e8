package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher is the action run on every tick.
type Refresher interface {
	ShowForecast()
}

// Scheduler re-runs "show forecast" on a cron schedule.
type Scheduler struct {
	refresher Refresher
	logger    *zap.Logger
	spec      string
	cron      *cron.Cron
	entry     cron.EntryID
	mu        sync.Mutex
	running   bool
	lastRun   time.Time
	runs      int
}

// NewScheduler validates spec ("@every 30m", "0 * * * *", ...).
func NewScheduler(refresher Refresher, spec string, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		refresher: refresher,
		logger:    logger,
		spec:      spec,
		cron:      cron.New(),
	}

	entry, err := s.cron.AddFunc(spec, s.runRefresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	s.entry = entry
	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started",
		zap.String("schedule", s.spec),
		zap.Time("next_run", s.cron.Entry(s.entry).Next))
}

func (s *Scheduler) runRefresh() {
	s.mu.Lock()
	s.lastRun = time.Now()
	s.runs++
	s.mu.Unlock()

	s.logger.Info("Scheduled forecast refresh")
	s.refresher.ShowForecast()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	// Waits for a refresh in progress.
	<-s.cron.Stop().Done()
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"running":  s.running,
		"schedule": s.spec,
		"last_run": s.lastRun,
		"next_run": s.cron.Entry(s.entry).Next,
		"runs":     s.runs,
	}
}
