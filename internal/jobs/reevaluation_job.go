package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"marketplace/internal/core/application/usecases/commands"
)

// DefaultReevaluationSchedule runs a pass at the top of every minute.
const DefaultReevaluationSchedule = "0 * * * * *"

// OrdersReevaluator runs one reevaluation pass over the active orders.
type OrdersReevaluator interface {
	Handle(ctx context.Context, cmd commands.ReevaluateOrdersCommand) (commands.ReevaluateOrdersResult, error)
}

// ReevaluationJob periodically feeds due auto-confirmations, lateness and
// auto-reassignments back through the lifecycle engine.
type ReevaluationJob struct {
	handler  OrdersReevaluator
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReevaluationJob creates the job. schedule is a six field cron expression with
// seconds; an empty schedule means DefaultReevaluationSchedule. A pass still running
// when the next one is due makes the next one skip.
func NewReevaluationJob(handler OrdersReevaluator, schedule string, logger *slog.Logger) *ReevaluationJob {
	if schedule == "" {
		schedule = DefaultReevaluationSchedule
	}
	logger = logger.With("component", "reevaluation_job")

	return &ReevaluationJob{
		handler:  handler,
		schedule: schedule,
		timeout:  time.Minute,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger: logger,
	}
}

func (j *ReevaluationJob) Name() string {
	return "reevaluation"
}

// Start registers the pass with the scheduler and starts it.
func (j *ReevaluationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reevaluation job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs a single pass and logs its outcome.
func (j *ReevaluationJob) RunOnce(ctx context.Context) commands.ReevaluateOrdersResult {
	cmd, err := commands.NewReevaluateOrdersCommand()
	if err != nil {
		j.logger.ErrorContext(ctx, "Reevaluation job failed", "error", err)
		return commands.ReevaluateOrdersResult{}
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reevaluation job failed",
			"checked", result.Checked,
			"changed", result.Changed,
			"error", err,
		)
		return result
	}

	if result.Changed > 0 {
		j.logger.InfoContext(ctx, "Reevaluation pass applied transitions",
			"checked", result.Checked,
			"changed", result.Changed,
		)
	}
	return result
}

// Stop stops scheduling new passes and waits for a running one to finish.
func (j *ReevaluationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reevaluation job stopped")
}

// cronLogger routes the scheduler's own messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
