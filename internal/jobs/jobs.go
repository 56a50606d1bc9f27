package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionPurger deletes expired sessions.
type SessionPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(log zerolog.Logger) *Scheduler {
	l := log.With().Str("component", "jobs").Logger()
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{l}))),
		log:  l,
	}
}

// AddSessionCleanup registers the expired-session purge on spec (standard cron or "@every 1h").
func (s *Scheduler) AddSessionCleanup(spec string, purger SessionPurger) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := purger.DeleteExpired(ctx, time.Now())
		if err != nil {
			s.log.Error().Err(err).Msg("session cleanup failed")
			return
		}
		s.log.Info().Int64("deleted", n).Msg("expired sessions removed")
	})
	if err != nil {
		return fmt.Errorf("schedule session cleanup %q: %w", spec, err)
	}
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for running jobs.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
