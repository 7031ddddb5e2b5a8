package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"timetable_collector/internal/app"
	"timetable_collector/internal/domain/provider"
	"timetable_collector/internal/infra/archive"
	"timetable_collector/internal/infra/config"
	"timetable_collector/internal/infra/logger"
	"timetable_collector/internal/infra/scheduler"
	"timetable_collector/internal/infra/status"
	"timetable_collector/internal/infra/telegram"
	"timetable_collector/internal/infra/untis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().WithError(err).Fatal("could not load configuration")
	}
	logger.Init(cfg)
	log := logger.Get()

	store := archive.NewStore(cfg.StoragePath)

	var reporter app.StateReporter
	if cfg.StatePath != "" {
		reporter = status.NewReporter(cfg.StatePath)
	}

	var checker app.StateChecker
	if cfg.StateCheckURL != "" {
		checker = status.NewChecker(cfg.StateCheckURL)
	}

	var notifier app.Notifier
	if cfg.TelegramToken != "" {
		n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.AdminChatID)
		if err != nil {
			// Notification is best-effort telemetry, never worth aborting for.
			log.WithError(err).Warn("telegram notifier unavailable")
		} else {
			notifier = n
		}
	}

	login := func(ctx context.Context) (provider.Client, error) {
		return untis.Login(ctx, cfg.Server, cfg.School, cfg.User, cfg.Password)
	}

	service := app.NewCollectorService(login, store, reporter, checker, notifier, []byte(cfg.Secret), log)

	// Without a schedule the collector is a one-shot job driven by an
	// external trigger, exactly one snapshot per invocation.
	if cfg.CronSpec == "" {
		if err := service.Run(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	}

	collectScheduler := scheduler.NewCollectScheduler(service, log, cfg.CronSpec)
	collectScheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	collectScheduler.Stop()
	log.Info("collector shut down gracefully")
}
