package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"appointment_notifier_bot/internal/apperr"
)

// cycleTimeout bounds one fetch→match→notify cycle so a hung outbound call
// cannot block the next scheduled tick forever.
const cycleTimeout = 1 * time.Minute

// CycleScheduler drives the recurring polling cycle from a cron-style
// schedule string. Ticks are wrapped so that a panicking cycle is recovered
// and a still-running cycle is skipped rather than overlapped.
type CycleScheduler struct {
	cronEngine *cron.Cron
	logger     *logrus.Entry
}

func NewCycleScheduler(logger *logrus.Entry) *CycleScheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &CycleScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // Use server's local time for cron
			cron.WithChain(
				cron.Recover(cronLogger),
				cron.SkipIfStillRunning(cronLogger),
			),
		),
		logger: logger,
	}
}

// ScheduleCycle registers run under the given cron spec. The stopPolling
// callback handed to run cancels this registration; it may be called from
// inside a running cycle and is a no-op after the first call. An invalid
// spec is rejected up front and nothing is scheduled.
func (s *CycleScheduler) ScheduleCycle(spec string, run func(ctx context.Context, stopPolling func())) error {
	var (
		id   cron.EntryID
		once sync.Once
	)
	stopPolling := func() {
		once.Do(func() {
			s.logger.Info("Cancelling recurring polling registration.")
			s.cronEngine.Remove(id)
		})
	}

	var err error
	id, err = s.cronEngine.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()
		run(ctx, stopPolling)
	})
	if err != nil {
		return fmt.Errorf("%w: invalid SCHEDULE %q: %v", apperr.ErrConfiguration, spec, err)
	}

	s.logger.Infof("Polling cycle registered with schedule %q.", spec)
	return nil
}

func (s *CycleScheduler) Start() {
	s.cronEngine.Start()
}

// Stop halts future ticks and waits for an in-flight cycle to finish.
func (s *CycleScheduler) Stop() {
	s.logger.Info("Stopping polling scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Polling scheduler gracefully stopped.")
}
