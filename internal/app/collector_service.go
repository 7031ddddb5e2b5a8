package app

import (
	"context"
	"fmt"
	"time"

	"timetable_collector/internal/domain/provider"
	"timetable_collector/internal/domain/runstate"
	"timetable_collector/internal/domain/timetable"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoginFunc opens an authenticated session with the scheduling source.
type LoginFunc func(ctx context.Context) (provider.Client, error)

// Archive is the persistence boundary for the date-partitioned snapshot
// archive.
type Archive interface {
	Load() (*timetable.ExportFile, error)
	Save(*timetable.ExportFile) error
}

// StateReporter publishes this run's lifecycle state for other runners.
type StateReporter interface {
	Publish(state runstate.State) error
}

// StateChecker fetches the shared status record published by other runners.
type StateChecker interface {
	Fetch(ctx context.Context) (*runstate.ReportedState, error)
}

// Notifier delivers run outcomes to a human channel.
type Notifier interface {
	Notify(text string) error
}

// CollectorService runs one collection: consult the shared status record,
// capture a pseudonymized timetable snapshot and append it to today's
// archive partition, publishing its own state along the way.
//
// Cross-runner coordination is advisory only. Two runners that pass the
// preflight check inside the same staleness window will both collect, and
// the later save wins. That window race is accepted; there is no lock.
type CollectorService struct {
	login    LoginFunc
	archive  Archive
	reporter StateReporter // nil when no local status file is configured
	checker  StateChecker  // nil when no shared record URL is configured
	notifier Notifier      // nil when Telegram is not configured
	secret   []byte
	logger   *logrus.Logger
	now      func() time.Time
}

func NewCollectorService(
	login LoginFunc,
	archive Archive,
	reporter StateReporter,
	checker StateChecker,
	notifier Notifier,
	secret []byte,
	logger *logrus.Logger,
) *CollectorService {
	return &CollectorService{
		login:    login,
		archive:  archive,
		reporter: reporter,
		checker:  checker,
		notifier: notifier,
		secret:   secret,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one sequential collection. A nil return either means the
// snapshot was archived or that the run yielded to another runner; every
// fatal failure is published as an Error state before it is returned.
func (s *CollectorService) Run(ctx context.Context) error {
	log := s.logger.WithField("run_id", uuid.NewString())

	if s.checker != nil && !s.preflight(ctx, log) {
		return nil
	}

	s.publish(log, runstate.Started())

	client, err := s.login(ctx)
	if err != nil {
		return s.fail(log, "login failed", err)
	}
	if closer, ok := client.(interface{ Logout(ctx context.Context) }); ok {
		defer closer.Logout(ctx)
	}

	file, err := s.archive.Load()
	if err != nil {
		return s.fail(log, "archive load failed", err)
	}

	snapshot, err := s.buildSnapshot(ctx, client, log)
	if err != nil {
		return s.fail(log, "snapshot build failed", err)
	}

	file.Add(*snapshot)

	if err := s.archive.Save(file); err != nil {
		return s.fail(log, "archive save failed", err)
	}

	s.publish(log, runstate.Success())
	s.notify(log, fmt.Sprintf("timetable snapshot archived, %d lessons", len(snapshot.Lessons)))
	log.WithField("lessons", len(snapshot.Lessons)).Info("collection run finished")
	return nil
}

// preflight consults the shared status record and reports whether this run
// should proceed. It fails open: only a fresh STARTED or SUCCESS from
// another runner stops the run; a fresh remote error, a stale record or an
// unreachable endpoint all let the local run go ahead.
func (s *CollectorService) preflight(ctx context.Context, log *logrus.Entry) bool {
	record, err := s.checker.Fetch(ctx)
	if err != nil {
		log.WithError(err).Warn("shared status record unavailable, collecting locally")
		return true
	}
	if !record.Fresh(s.now()) {
		log.Debug("shared status record is stale, collecting locally")
		return true
	}

	switch record.State.Kind {
	case runstate.KindStarted:
		log.Info("another runner already started this period, yielding")
		return false
	case runstate.KindSuccess:
		log.Info("another runner already succeeded this period, yielding")
		return false
	case runstate.KindError:
		log.WithField("remote_error", record.State.Message).
			Warn("remote runner failed recently, collecting locally")
		return true
	default:
		log.WithField("state", record.State.Kind).Warn("unknown shared state, collecting locally")
		return true
	}
}

// fail publishes and reports a fatal run error. Problems while publishing
// or notifying never change the returned error.
func (s *CollectorService) fail(log *logrus.Entry, stage string, err error) error {
	message := fmt.Sprintf("%s: %v", stage, err)
	log.WithError(err).Error(stage)
	s.publish(log, runstate.Error(message))
	s.notify(log, message)
	return fmt.Errorf("%s: %w", stage, err)
}

func (s *CollectorService) publish(log *logrus.Entry, state runstate.State) {
	if s.reporter == nil {
		return
	}
	if err := s.reporter.Publish(state); err != nil {
		log.WithError(err).Warn("could not publish run state")
	}
}

func (s *CollectorService) notify(log *logrus.Entry, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(text); err != nil {
		log.WithError(err).Warn("could not send outcome notification")
	}
}
