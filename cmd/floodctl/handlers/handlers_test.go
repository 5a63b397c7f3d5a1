package handlers

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/cmd/floodctl/display"
	"github.com/concave-dev/floodgate/internal/api"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup starts a standalone node, points the CLI at it and captures output.
func setup(t *testing.T, opts store.Options) (*store.Store, *bytes.Buffer) {
	t.Helper()

	st := store.New(opts)
	sub, err := submit.New(submit.Config{ConcurrencyLimit: 8, Mode: submit.Block()})
	require.NoError(t, err)

	cfg := api.DefaultConfig()
	cfg.Store = st
	cfg.Submitter = sub

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server, err := api.NewServerWithListener(cfg, listener)
	require.NoError(t, err)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	config.Global.APIAddr = server.Addr()
	config.Global.LogLevel = "ERROR"
	config.Global.Timeout = 5
	config.Global.Output = config.OutputTable

	var buf bytes.Buffer
	prev := display.Out
	display.Out = &buf
	t.Cleanup(func() { display.Out = prev })

	return st, &buf
}

func testCommand(t *testing.T) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	return cmd
}

func resetWrite() {
	config.Write.Count = 200
	config.Write.PayloadSize = 32
	config.Write.StartID = 0
	config.Write.Concurrency = 8
	config.Write.Mode = "block"
	config.Write.Retries = 0
	config.Write.WriteTimeout = 5 * time.Second
	config.Write.Rate = 0
	config.Write.Burst = 1
	config.Write.DrainTimeout = 0
}

func TestHandleWrite(t *testing.T) {
	st, buf := setup(t, store.Options{})
	resetWrite()
	config.Write.StartID = 1000

	require.NoError(t, HandleWrite(testCommand(t), nil))

	assert.Equal(t, 200, st.Len())
	_, ok := st.Get(1000)
	assert.True(t, ok)
	_, ok = st.Get(1199)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "Succeeded:")
}

func TestHandleWriteReportsFailures(t *testing.T) {
	st, _ := setup(t, store.Options{FailEvery: 4})
	resetWrite()
	config.Write.Count = 100

	err := HandleWrite(testCommand(t), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "25 of 100 writes failed")
	assert.Equal(t, 75, st.Len())
}

func TestHandleWriteRetriesRecover(t *testing.T) {
	st, _ := setup(t, store.Options{FailEvery: 4})
	resetWrite()
	config.Write.Count = 100
	config.Write.Concurrency = 1
	config.Write.Retries = 2

	require.NoError(t, HandleWrite(testCommand(t), nil))
	assert.Equal(t, 100, st.Len())
}

func TestHandleWriteInvalidFlags(t *testing.T) {
	setup(t, store.Options{})
	resetWrite()
	config.Write.Mode = "failfast"

	assert.Error(t, HandleWrite(testCommand(t), nil))
}

func TestHandleBatch(t *testing.T) {
	st, buf := setup(t, store.Options{})
	config.Batch = config.BatchFlags{Count: 300, PayloadSize: 16, Target: "local"}

	require.NoError(t, HandleBatch(testCommand(t), nil))
	assert.Equal(t, 300, st.Len())
	assert.Contains(t, buf.String(), "local")
}

func TestHandleNodeCommands(t *testing.T) {
	_, buf := setup(t, store.Options{})

	require.NoError(t, HandleHealth(testCommand(t), nil))
	assert.Contains(t, buf.String(), "healthy")

	buf.Reset()
	require.NoError(t, HandleStats(testCommand(t), nil))
	assert.Contains(t, buf.String(), "Token Pool:")

	buf.Reset()
	require.NoError(t, HandleMembers(testCommand(t), nil))
	assert.Contains(t, buf.String(), "No cluster nodes found")
}

func TestHandleReset(t *testing.T) {
	st, _ := setup(t, store.Options{})
	require.NoError(t, st.Put(t.Context(), 7, nil))

	require.NoError(t, HandleReset(testCommand(t), nil))
	assert.Equal(t, 0, st.Len())
}

func TestWriteOpRetriesOnlyRetryableErrors(t *testing.T) {
	resetWrite()
	config.Write.Retries = 3

	var calls atomic.Int32
	op := WriteOp(func(ctx context.Context, req submit.Request) error {
		calls.Add(1)
		return context.Canceled
	})

	err := op(t.Context(), submit.Request{ID: 1})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), calls.Load())
}

func TestWriteOpTimeout(t *testing.T) {
	resetWrite()
	config.Write.WriteTimeout = 20 * time.Millisecond

	op := WriteOp(func(ctx context.Context, req submit.Request) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	err := op(t.Context(), submit.Request{ID: 1})
	assert.ErrorIs(t, err, submit.ErrWriteTimeout)
}
