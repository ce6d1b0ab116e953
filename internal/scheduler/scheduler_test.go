package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResender struct {
	calls atomic.Int32
	err   error
}

func (c *countingResender) ResendPendingVerifications(ctx context.Context) (int, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("job must run with a deadline")
	}
	return 0, c.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNew_InvalidSpec(t *testing.T) {
	t.Parallel()
	_, err := New(&countingResender{}, "every now and then", quietLogger())
	assert.Error(t, err)
}

func TestResendPending(t *testing.T) {
	t.Parallel()
	r := &countingResender{err: errors.New("mongo down")}
	s, err := New(r, "@every 1h", quietLogger())
	require.NoError(t, err)

	s.resendPending()
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestScheduler_RunsJob(t *testing.T) {
	t.Parallel()
	r := &countingResender{}
	s, err := New(r, "@every 1s", quietLogger())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
