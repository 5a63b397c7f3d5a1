package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	s := New(Options{})

	payload := []byte("hello")
	require.NoError(t, s.Put(context.Background(), 42, payload))
	payload[0] = 'j'

	rec, ok := s.Get(42)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), rec.Payload, "payload must be copied")
	assert.False(t, rec.StoredAt.IsZero())

	_, ok = s.Get(7)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestFailEvery(t *testing.T) {
	s := New(Options{FailEvery: 3})

	var failed int
	for i := range 9 {
		if err := s.Put(context.Background(), uint64(i), []byte{1}); err != nil {
			require.True(t, errors.Is(err, ErrInjectedFailure))
			failed++
		}
	}

	assert.Equal(t, 3, failed)
	stats := s.Stats()
	assert.Equal(t, Stats{Records: 6, Writes: 9, Failures: 3, Bytes: 6}, stats)
}

func TestOverwriteReplacesByteCount(t *testing.T) {
	s := New(Options{})
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, 1, make([]byte, 100)))
	require.NoError(t, s.Put(ctx, 2, make([]byte, 10)))
	require.NoError(t, s.Put(ctx, 1, make([]byte, 40)))

	stats := s.Stats()
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, int64(3), stats.Writes)
	assert.Equal(t, int64(50), stats.Bytes)

	require.NoError(t, s.Put(ctx, 2, nil))
	assert.Equal(t, int64(40), s.Stats().Bytes)
}

func TestLatencyHonoursContext(t *testing.T) {
	s := New(Options{Latency: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Put(ctx, 1, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, s.Len())
}

func TestSnapshotOrdersByID(t *testing.T) {
	s := New(Options{})
	for _, id := range []uint64{5, 1, 3} {
		require.NoError(t, s.Put(context.Background(), id, []byte{byte(id)}))
	}

	var buf bytes.Buffer
	require.NoError(t, s.Snapshot(&buf))

	var records []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, []uint64{1, 3, 5}, []uint64{records[0].ID, records[1].ID, records[2].ID})
}

func TestReset(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Put(context.Background(), 1, []byte("x")))
	s.Reset()

	assert.Equal(t, Stats{}, s.Stats())
}
