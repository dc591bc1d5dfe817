package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

const defaultJobTimeout = 10 * time.Minute

var schedulerTracer = otel.Tracer("matchday-sync/internal/interfaces/scheduler")

// Job is one recurring trigger. Run gets a fresh root context per tick.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler fires jobs on standard five-field cron specs in UTC. A tick that
// is still running when the next one is due is skipped, never stacked.
type Scheduler struct {
	cron   *cron.Cron
	logger *logging.Logger
}

func New(jobs []Job, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "scheduler")

	cronLogger := cronLogAdapter{logger: logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger)),
	)

	s := &Scheduler{cron: c, logger: logger}
	for _, job := range jobs {
		if job.Run == nil {
			return nil, fmt.Errorf("job %q has no run func", job.Name)
		}
		wrapped := cron.NewChain(cron.SkipIfStillRunning(cronLogger)).Then(s.tick(job))
		if _, err := c.AddJob(job.Spec, wrapped); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", job.Name, job.Spec, err)
		}
		logger.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	}
	return s, nil
}

func (s *Scheduler) tick(job Job) cron.Job {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		ctx, span := schedulerTracer.Start(ctx, "scheduler."+job.Name)
		defer span.End()
		span.SetAttributes(attribute.String("scheduler.job", job.Name))

		started := time.Now()
		if err := job.Run(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.ErrorContext(ctx, "job failed", "job", job.Name, "duration", time.Since(started), "error", err)
			return
		}
		s.logger.InfoContext(ctx, "job finished", "job", job.Name, "duration", time.Since(started))
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new ticks and waits for running ones until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries lists the scheduled jobs with their next fire time.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Error(msg, append(keysAndValues, "error", err)...)
}
