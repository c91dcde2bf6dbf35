package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorRouter_RoutesByJobType(t *testing.T) {
	rollup := newRecordingExecutor(1)
	reminder := newRecordingExecutor(1)

	router := NewExecutorRouter()
	router.Register(JobTypeAnalyticsRollup, rollup)
	router.Register(JobTypeWorkReminder, reminder)

	job := NewJob(JobTypeAnalyticsRollup, time.Now(), time.Now(), 0)
	require.NoError(t, router.Execute(context.Background(), job))

	assert.Equal(t, 1, rollup.count())
	assert.Equal(t, 0, reminder.count())
}

func TestExecutorRouter_UnknownJobType(t *testing.T) {
	router := NewExecutorRouter()
	router.Register(JobTypeWorkReminder, newRecordingExecutor(1))

	job := NewJob(JobTypeNotificationSweep, time.Now(), time.Now(), 0)
	err := router.Execute(context.Background(), job)

	assert.ErrorIs(t, err, ErrInvalidJobType)
}
