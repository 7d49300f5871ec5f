package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/appointment-dashboard/internal/appointment"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// countingSource counts upstream fetches.
type countingSource struct {
	calls   int32
	records []appointment.Appointment
	err     error
}

func (s *countingSource) FetchAppointments(context.Context) ([]appointment.Appointment, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// heldLocker reports every lock as taken by someone else.
type heldLocker struct{}

func (heldLocker) WithLock(context.Context, string, func(context.Context) error) error {
	return ErrLockNotAcquired
}

func TestNewRedisClientFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}

func TestWithLockIsExclusive(t *testing.T) {
	mr, rdb := newTestRedis(t)
	locker := NewRedisLocker(rdb, 5*time.Second)

	err := locker.WithLock(context.Background(), "k", func(ctx context.Context) error {
		assert.True(t, mr.Exists("lock:k"))

		inner := locker.WithLock(ctx, "k", func(context.Context) error {
			t.Fatal("second holder must not run")
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)
		return nil
	})
	require.NoError(t, err)

	assert.False(t, mr.Exists("lock:k"), "lock released after fn returns")
}

func TestWithLockReturnsFnError(t *testing.T) {
	mr, rdb := newTestRedis(t)
	locker := NewRedisLocker(rdb, 5*time.Second)
	boom := errors.New("boom")

	err := locker.WithLock(context.Background(), "k", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("lock:k"))
}

func TestWithLockDoesNotReleaseForeignToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	locker := NewRedisLocker(rdb, 5*time.Second)

	err := locker.WithLock(context.Background(), "k", func(context.Context) error {
		// Simulate expiry and takeover by another holder.
		return mr.Set("lock:k", "someone-else")
	})
	require.NoError(t, err)

	v, err := mr.Get("lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestSnapshotCacheMissFillsFromUpstream(t *testing.T) {
	mr, rdb := newTestRedis(t)
	up := &countingSource{records: appointment.Fixtures()}
	cache := NewSnapshotCache(rdb, up, NewRedisLocker(rdb, time.Second), "", time.Minute)

	first, err := cache.FetchAppointments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, appointment.Fixtures(), first)
	assert.True(t, mr.Exists(DefaultSnapshotKey))
	assert.InDelta(t, time.Minute.Seconds(), mr.TTL(DefaultSnapshotKey).Seconds(), 1)

	second, err := cache.FetchAppointments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&up.calls), "hit must not call upstream")
}

func TestSnapshotCacheLockHeldFallsThrough(t *testing.T) {
	mr, rdb := newTestRedis(t)
	up := &countingSource{records: appointment.Fixtures()}
	cache := NewSnapshotCache(rdb, up, heldLocker{}, "snap", time.Minute)

	recs, err := cache.FetchAppointments(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 6)
	assert.False(t, mr.Exists("snap"), "only the lock holder writes")
}

func TestSnapshotCacheUpstreamError(t *testing.T) {
	mr, rdb := newTestRedis(t)
	boom := errors.New("postgres down")
	cache := NewSnapshotCache(rdb, &countingSource{err: boom}, NewRedisLocker(rdb, time.Second), "snap", time.Minute)

	_, err := cache.FetchAppointments(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("snap"))
}

func TestSnapshotCacheRefresh(t *testing.T) {
	mr, rdb := newTestRedis(t)
	up := &countingSource{records: appointment.Fixtures()[:2]}
	cache := NewSnapshotCache(rdb, up, NewRedisLocker(rdb, time.Second), "snap", time.Minute)

	require.NoError(t, mr.Set("snap", "[]"))

	n, err := cache.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := mr.Get("snap")
	require.NoError(t, err)
	var stored []appointment.Appointment
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, up.records, stored)
}

func TestSnapshotCacheLoadsIntoDashboard(t *testing.T) {
	_, rdb := newTestRedis(t)
	up := &countingSource{records: appointment.Fixtures()}
	cache := NewSnapshotCache(rdb, up, NewRedisLocker(rdb, time.Second), "", time.Minute)
	_, err := cache.Refresh(context.Background())
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC) }
	dash := appointment.NewDashboard(appointment.NewStore(), nil, clock)
	require.NoError(t, dash.Load(context.Background(), cache))

	stats, err := dash.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Today)
	assert.Equal(t, 2, stats.Video)
}

func TestPublisher(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, "events")
	defer sub.Close()
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	pub := NewPublisher(rdb, "events")
	ev := appointment.Event{
		Type:          appointment.EventStatusUpdated,
		AppointmentID: "1",
		Payload:       map[string]any{"status": "Cancelled"},
		CreatedAt:     time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(ctx, ev))

	msgCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(msgCtx)
	require.NoError(t, err)

	var got appointment.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, ev.Type, got.Type)
	assert.Equal(t, "1", got.AppointmentID)
	assert.Equal(t, "Cancelled", got.Payload["status"])
}
