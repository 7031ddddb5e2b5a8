package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is one collection run. The scheduler does not care what happens
// inside; failures are already published and logged by the run itself.
type Runner interface {
	Run(ctx context.Context) error
}

// CollectScheduler triggers collection runs on a cron schedule. It is used
// when the collector runs as a long-lived process instead of under an
// external cron or systemd timer.
type CollectScheduler struct {
	cronEngine *cron.Cron
	runner     Runner
	logger     *logrus.Logger
	spec       string
}

func NewCollectScheduler(runner Runner, logger *logrus.Logger, spec string) *CollectScheduler {
	return &CollectScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		runner:     runner,
		logger:     logger,
		spec:       spec,
	}
}

// Start registers the collection job and starts the cron engine. An
// unparsable schedule is fatal; the process has nothing to do without it.
func (s *CollectScheduler) Start() {
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		s.logger.Info("cron trigger, starting collection run")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := s.runner.Run(ctx); err != nil {
			s.logger.WithError(err).Error("scheduled collection run failed")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatalf("could not register collection schedule %q", s.spec)
	}

	s.cronEngine.Start()
	s.logger.Infof("collection scheduler started with spec %q", s.spec)
}

// Stop stops the cron engine and waits for a running job to finish.
func (s *CollectScheduler) Stop() {
	s.logger.Info("stopping collection scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("collection scheduler stopped")
}
