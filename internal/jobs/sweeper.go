// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"moneybook/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SessionSweeper deletes sessions that are expired or revoked as of now.
type SessionSweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Entry
}

func NewScheduler() *Scheduler {
	log := logrus.WithField("component", "jobs")
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{log}))),
		log:  log,
	}
}

// Add schedules fn under name on spec ("@every 1h", "0 */6 * * *", ...).
// An empty spec disables the job.
func (s *Scheduler) Add(spec, name string, fn func()) error {
	if spec == "" {
		s.log.WithField("job", name).Info("job disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) AddSessionSweep(spec string, sweeper SessionSweeper) error {
	return s.Add(spec, "session sweep", func() {
		SweepOnce(context.Background(), sweeper, s.log)
	})
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SweepOnce runs one sweep and reports the result.
func SweepOnce(ctx context.Context, sweeper SessionSweeper, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := sweeper.Sweep(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("session sweep failed")
		return
	}
	metrics.RecordSweep(n)
	if n > 0 {
		log.WithField("deleted", n).Info("sessions swept")
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).WithError(err).Error(msg)
}

func pairs(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
