package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackgods/appointment-dashboard/internal/appointment"
)

const DefaultSnapshotKey = "appointments:snapshot"

// SnapshotCache is an appointment.DataSource that keeps a JSON copy of the
// upstream collection in Redis.
type SnapshotCache struct {
	client   *redis.Client
	upstream appointment.DataSource
	locker   Locker
	key      string
	ttl      time.Duration
}

func NewSnapshotCache(client *redis.Client, upstream appointment.DataSource, locker Locker, key string, ttl time.Duration) *SnapshotCache {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &SnapshotCache{
		client:   client,
		upstream: upstream,
		locker:   locker,
		key:      key,
		ttl:      ttl,
	}
}

// FetchAppointments serves the snapshot when present. On a miss the
// holder of the refill lock fetches upstream and writes the snapshot;
// anyone else reads upstream directly without writing.
func (c *SnapshotCache) FetchAppointments(ctx context.Context) ([]appointment.Appointment, error) {
	records, err := c.read(ctx)
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("snapshot read failed key=%s: %v", c.key, err)
		return c.upstream.FetchAppointments(ctx)
	}

	var fetched []appointment.Appointment
	err = c.locker.WithLock(ctx, "snapshot:"+c.key, func(lockCtx context.Context) error {
		recs, err := c.upstream.FetchAppointments(lockCtx)
		if err != nil {
			return err
		}
		fetched = recs
		if err := c.write(lockCtx, recs); err != nil {
			log.Printf("snapshot write failed key=%s: %v", c.key, err)
		}
		return nil
	})
	if errors.Is(err, ErrLockNotAcquired) {
		return c.upstream.FetchAppointments(ctx)
	}
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

// Refresh re-reads upstream and overwrites the snapshot.
func (c *SnapshotCache) Refresh(ctx context.Context) (int, error) {
	recs, err := c.upstream.FetchAppointments(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch upstream: %w", err)
	}
	if err := c.write(ctx, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (c *SnapshotCache) read(ctx context.Context) ([]appointment.Appointment, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, err
	}
	var records []appointment.Appointment
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}

func (c *SnapshotCache) write(ctx context.Context, records []appointment.Appointment) error {
	if records == nil {
		records = []appointment.Appointment{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
