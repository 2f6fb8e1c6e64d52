// internal/app/cycle_service.go
package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"appointment_notifier_bot/internal/domain/appointment"
	"appointment_notifier_bot/internal/domain/cycle"
	"appointment_notifier_bot/internal/infra/config"
)

// PollingState is the single piece of mutable cycle state. It transitions
// ACTIVE → STOPPED at most once and never back; a fresh process start is
// required to resume polling.
type PollingState string

const (
	PollingActive  PollingState = "ACTIVE"
	PollingStopped PollingState = "STOPPED"
)

// Notifier delivers the per-match and one-time startup messages.
type Notifier interface {
	// NotifyFound sends the found-notification; configuration and delivery
	// failures propagate to the caller.
	NotifyFound(date appointment.Date) error
	// NotifyStartup is best-effort and swallows its own failures.
	NotifyStartup(schedule string, windowDays int, bookingLink string)
}

// CycleService orchestrates one polling cycle: fetch candidate dates, match
// them against the acceptance window, notify on a match, and decide whether
// to stop polling. It owns the stop-on-found decision and signals it through
// the stopPolling callback injected by the scheduler.
type CycleService struct {
	cfg      *config.AppConfig
	fetcher  appointment.Fetcher
	matcher  *appointment.Matcher
	notifier Notifier
	runs     cycle.Repository // optional audit store; may be nil
	logger   *logrus.Entry
	state    PollingState
}

func NewCycleService(
	cfg *config.AppConfig,
	fetcher appointment.Fetcher,
	matcher *appointment.Matcher,
	notifier Notifier,
	runs cycle.Repository,
	logger *logrus.Entry,
) *CycleService {
	return &CycleService{
		cfg:      cfg,
		fetcher:  fetcher,
		matcher:  matcher,
		notifier: notifier,
		runs:     runs,
		logger:   logger,
		state:    PollingActive,
	}
}

func (s *CycleService) State() PollingState {
	return s.state
}

// RunCycle executes one fetch→match→notify cycle. It never propagates an
// error: a failed cycle must not terminate the scheduled process, and the
// recurring schedule is the only retry mechanism.
func (s *CycleService) RunCycle(ctx context.Context, stopPolling func()) {
	if s.state == PollingStopped {
		s.logger.Debug("Polling already stopped; skipping cycle.")
		return
	}

	timespanDays := s.cfg.TimespanDays
	stopWhenFound := s.cfg.StopWhenFound

	dates := s.fetcher.Fetch(ctx)

	match, found, err := s.matcher.Match(dates, timespanDays)
	if err != nil {
		// Invalid window configuration is a config/programming bug; halt
		// the current cycle loudly and let the schedule carry on.
		s.logger.Errorf("Cycle aborted: %v", err)
		return
	}

	if !found {
		s.logger.Infof("No appointment available within the next %d day(s).", timespanDays)
		s.recordRun(ctx, cycle.Run{RanAt: time.Now(), Matched: false})
		return
	}

	s.logger.Infof("Appointment slot found on %s.", match)

	if err := s.notifier.NotifyFound(match); err != nil {
		// Swallowed: a failed notification must not crash the cycle or
		// prevent the stop-check below.
		s.logger.Errorf("Found-notification failed: %v", err)
	}

	stopped := false
	if stopWhenFound {
		s.state = PollingStopped
		stopPolling()
		stopped = true
		s.logger.Info("Stop-on-found is enabled; recurring polling cancelled.")
	}

	s.recordRun(ctx, cycle.Run{
		RanAt:       time.Now(),
		Matched:     true,
		MatchedDate: sql.NullString{String: match.String(), Valid: true},
		Stopped:     stopped,
	})
}

// recordRun persists the audit record best-effort; the decision path never
// reads it back.
func (s *CycleService) recordRun(ctx context.Context, run cycle.Run) {
	if s.runs == nil {
		return
	}
	if err := s.runs.RecordRun(ctx, &run); err != nil {
		s.logger.Warnf("Could not record cycle run: %v", err)
	}
}
