package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"appointment_notifier_bot/internal/app"
	"appointment_notifier_bot/internal/domain/appointment"
	"appointment_notifier_bot/internal/domain/cycle"
	infraappointment "appointment_notifier_bot/internal/infra/appointment"
	"appointment_notifier_bot/internal/infra/config"
	idb "appointment_notifier_bot/internal/infra/database"
	"appointment_notifier_bot/internal/infra/logger"
	"appointment_notifier_bot/internal/infra/scheduler"
	"appointment_notifier_bot/internal/infra/telegram"
)

// startupNotifyDelay is the short fixed delay between scheduling the polling
// cycle and sending the one-time startup notification.
const startupNotifyDelay = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLog := logger.Log.WithField("component", "main")
	mainLog.Infof("Configuration loaded. Schedule: %q, window: %d day(s), stop-on-found: %v.",
		cfg.Schedule, cfg.TimespanDays, cfg.StopWhenFound)

	// Optional cycle audit store.
	var runRepo cycle.Repository
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLog.Fatalf("Could not connect to audit database: %v", err)
		}
		defer db.Close()
		runRepo = idb.NewPostgresRunRepository(db)
		mainLog.Info("Cycle audit store enabled.")
	}

	fetcher := infraappointment.NewHTTPFetcher(cfg.AppointmentURL, logger.Log.WithField("component", "fetcher"))
	matcher := appointment.NewMatcher()
	notifier := telegram.NewNotifier(cfg, logger.Log.WithField("component", "notifier"))
	cycleService := app.NewCycleService(cfg, fetcher, matcher, notifier, runRepo, logger.Log.WithField("component", "cycle"))

	cycleScheduler := scheduler.NewCycleScheduler(logger.Log.WithField("component", "scheduler"))
	if err := cycleScheduler.ScheduleCycle(cfg.Schedule, cycleService.RunCycle); err != nil {
		// Invalid schedule: stay alive but inert so the failure is visible
		// where the process is supervised.
		mainLog.Errorf("No polling cycle scheduled: %v", err)
		waitForShutdown(mainLog)
		return
	}

	cycleScheduler.Start()
	mainLog.Info("Polling scheduler started.")

	startupTimer := time.AfterFunc(startupNotifyDelay, func() {
		notifier.NotifyStartup(cfg.Schedule, cfg.TimespanDays, cfg.BookingURL)
	})
	defer startupTimer.Stop()

	waitForShutdown(mainLog)
	cycleScheduler.Stop()
	mainLog.Info("Application shut down gracefully.")
}

func waitForShutdown(log *logrus.Entry) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down application...")
}
