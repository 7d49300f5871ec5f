package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/appointment-dashboard/internal/appointment"
	"github.com/hackgods/appointment-dashboard/internal/config"
	"github.com/hackgods/appointment-dashboard/internal/db"
	redisclient "github.com/hackgods/appointment-dashboard/internal/redis"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("cache-warmer starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	log.Printf("running cache warmer in env=%s interval=%s ttl=%s", cfg.Env, cfg.WorkerInterval, cfg.CacheTTL)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(rootCtx, redisclient.Options{
		Addr:       cfg.RedisAddr,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
		ClientName: "cache-warmer",
	})
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	locker := redisclient.NewRedisLocker(rdb, cfg.LockTTL)
	cache := redisclient.NewSnapshotCache(rdb, appointment.NewPgSource(pgPool), locker, redisclient.DefaultSnapshotKey, cfg.CacheTTL)

	// Run once at startup
	runOnce(rootCtx, cache)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping cache warmer")
			return
		case <-ticker.C:
			runOnce(rootCtx, cache)
		}
	}
}

func runOnce(ctx context.Context, cache *redisclient.SnapshotCache) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	n, err := cache.Refresh(runCtx)
	if err != nil {
		log.Printf("snapshot refresh error: %v", err)
		return
	}
	log.Printf("snapshot refreshed count=%d in %s", n, time.Since(start))
}
