package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/jobs"
)

type MockOutboxRelayer struct{ mock.Mock }

func (m *MockOutboxRelayer) Handle(
	ctx context.Context,
	cmd commands.RelayOutboxCommand,
) (commands.RelayOutboxResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RelayOutboxResult), args.Error(1)
}

func TestOutboxRelayJob_RunOnce(t *testing.T) {
	t.Run("uses the default batch size", func(t *testing.T) {
		handler := &MockOutboxRelayer{}
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RelayOutboxCommand) bool {
			return cmd.Validate() == nil && cmd.BatchSize() == commands.DefaultOutboxBatchSize
		})).Return(commands.RelayOutboxResult{Fetched: 3, Sent: 3}, nil).Once()

		job := jobs.NewOutboxRelayJob(handler, "", 0, discardLogger())
		result := job.RunOnce(t.Context())

		assert.Equal(t, 3, result.Sent)
		handler.AssertExpectations(t)
	})

	t.Run("failed deliveries are reported with the counts", func(t *testing.T) {
		handler := &MockOutboxRelayer{}
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RelayOutboxCommand) bool {
			return cmd.BatchSize() == 25
		})).Return(commands.RelayOutboxResult{Fetched: 2, Sent: 1, Failed: 1}, errors.New("broker down")).Once()

		job := jobs.NewOutboxRelayJob(handler, "", 25, discardLogger())
		result := job.RunOnce(t.Context())

		assert.Equal(t, commands.RelayOutboxResult{Fetched: 2, Sent: 1, Failed: 1}, result)
		handler.AssertExpectations(t)
	})
}

func TestOutboxRelayJob_Schedule(t *testing.T) {
	t.Run("invalid expression fails to start", func(t *testing.T) {
		job := jobs.NewOutboxRelayJob(&MockOutboxRelayer{}, "often", 10, discardLogger())

		require.Error(t, job.Start())
	})

	t.Run("relays on schedule until stopped", func(t *testing.T) {
		ran := make(chan struct{}, 1)
		handler := &MockOutboxRelayer{}
		handler.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) {
				select {
				case ran <- struct{}{}:
				default:
				}
			}).
			Return(commands.RelayOutboxResult{}, nil)

		job := jobs.NewOutboxRelayJob(handler, "* * * * * *", 10, discardLogger())
		require.NoError(t, job.Start())
		defer job.Stop()

		select {
		case <-ran:
		case <-time.After(3 * time.Second):
			t.Fatal("relay pass did not run")
		}
		assert.Equal(t, "outbox_relay", job.Name())
	})
}
