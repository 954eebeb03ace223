package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marketplace/internal/adapters/out/clock"
)

func TestUTC_Now(t *testing.T) {
	before := time.Now()
	now := clock.UTC{}.Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.False(t, now.Before(before.Truncate(time.Second)))
}
