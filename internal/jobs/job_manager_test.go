package jobs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/jobs"
)

type recordingJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j recordingJob) Name() string { return j.name }

func (j recordingJob) Start() error {
	if j.startErr != nil {
		return j.startErr
	}
	*j.log = append(*j.log, "start "+j.name)
	return nil
}

func (j recordingJob) Stop() {
	*j.log = append(*j.log, "stop "+j.name)
}

func TestJobManager(t *testing.T) {
	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var log []string
		jm := jobs.NewJobManager(
			recordingJob{name: "a", log: &log},
			recordingJob{name: "b", log: &log},
		)

		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("failed start stops the jobs already running", func(t *testing.T) {
		var log []string
		jm := jobs.NewJobManager(
			recordingJob{name: "a", log: &log},
			recordingJob{name: "b", log: &log, startErr: errors.New("bad schedule")},
			recordingJob{name: "c", log: &log},
		)

		err := jm.StartAll()

		require.ErrorContains(t, err, "failed to start b job")
		assert.Equal(t, []string{"start a", "stop a"}, log)
	})

	t.Run("stopping twice is harmless", func(t *testing.T) {
		var log []string
		jm := jobs.NewJobManager(recordingJob{name: "a", log: &log})
		require.NoError(t, jm.StartAll())

		jm.StopAll()
		jm.StopAll()

		assert.Equal(t, []string{"start a", "stop a"}, log)
	})
}
