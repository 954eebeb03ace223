package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"marketplace/internal/core/application/usecases/commands"
)

// DefaultOutboxRelaySchedule relays pending events every five seconds.
const DefaultOutboxRelaySchedule = "*/5 * * * * *"

// OutboxRelayer delivers one batch of pending outbox messages.
type OutboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayOutboxResult, error)
}

// OutboxRelayJob periodically pushes staged domain events to Kafka.
type OutboxRelayJob struct {
	handler   OutboxRelayer
	schedule  string
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOutboxRelayJob creates the job. Empty schedule and non-positive batchSize fall
// back to DefaultOutboxRelaySchedule and commands.DefaultOutboxBatchSize.
func NewOutboxRelayJob(handler OutboxRelayer, schedule string, batchSize int, logger *slog.Logger) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultOutboxRelaySchedule
	}
	if batchSize <= 0 {
		batchSize = commands.DefaultOutboxBatchSize
	}
	logger = logger.With("component", "outbox_relay_job")

	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		timeout:   30 * time.Second,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger: logger,
	}
}

func (j *OutboxRelayJob) Name() string {
	return "outbox_relay"
}

func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started",
		"schedule", j.schedule,
		"batch_size", j.batchSize,
	)
	return nil
}

// RunOnce relays a single batch and logs its outcome.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) commands.RelayOutboxResult {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err)
		return commands.RelayOutboxResult{}
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay failed",
			"fetched", result.Fetched,
			"sent", result.Sent,
			"failed", result.Failed,
			"error", err,
		)
		return result
	}

	if result.Sent > 0 {
		j.logger.DebugContext(ctx, "Outbox batch relayed", "sent", result.Sent)
	}
	return result
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
