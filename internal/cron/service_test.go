package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/balarco/balarco-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.acquired = false; return nil }

type testJob struct {
	name     string
	err      error
	runs     int
	deadline bool
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(ctx context.Context) error {
	t.runs++
	_, t.deadline = ctx.Deadline()
	return t.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func newTestService(t *testing.T, lock Lock, timeout time.Duration, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	require.NoError(t, err)
	service, err := NewService(ServiceParams{
		Logger:     testLogger(),
		Registry:   registry,
		Lock:       lock,
		Interval:   time.Hour,
		JobTimeout: timeout,
	})
	require.NoError(t, err)
	return service
}

func TestRunOnceRunsAllJobsAndJoinsFailures(t *testing.T) {
	ok := &testJob{name: "success"}
	failA := &testJob{name: "fail-a", err: errors.New("boom")}
	failB := &testJob{name: "fail-b", err: errors.New("bang")}
	lock := &fakeLock{}
	service := newTestService(t, lock, 0, failA, ok, failB)

	err := service.RunOnce(context.Background())

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorContains(t, err, "fail-a: boom")
	assert.ErrorContains(t, err, "fail-b: bang")
	assert.Equal(t, 1, ok.runs)
	assert.Equal(t, 1, failA.runs)
	assert.Equal(t, 1, failB.runs)
	assert.False(t, lock.acquired, "lock must be released after the cycle")
}

func TestRunOnceAppliesJobTimeout(t *testing.T) {
	job := &testJob{name: "notification-cleanup"}
	service := newTestService(t, &fakeLock{}, time.Minute, job)

	require.NoError(t, service.RunOnce(context.Background()))
	assert.True(t, job.deadline)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "notification-cleanup"}
	service := newTestService(t, &fakeLock{acquired: true}, 0, job)

	require.NoError(t, service.RunOnce(context.Background()))
	assert.Zero(t, job.runs)
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "notification-cleanup"}
	service := newTestService(t, &fakeLock{}, 0, job)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, service.Run(ctx), context.Canceled)
	assert.Equal(t, 1, job.runs, "the first cycle runs before the loop")
}

func TestNewServiceValidates(t *testing.T) {
	_, err := NewService(ServiceParams{Lock: &fakeLock{}})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Logger: testLogger()})
	assert.Error(t, err)
}
