package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/appointment-dashboard/internal/api"
	"github.com/hackgods/appointment-dashboard/internal/appointment"
	"github.com/hackgods/appointment-dashboard/internal/config"
	"github.com/hackgods/appointment-dashboard/internal/db"
	redisclient "github.com/hackgods/appointment-dashboard/internal/redis"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s data_source=%s timezone=%s",
		cfg.Env, cfg.HTTPPort, cfg.DataSource, cfg.Location)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pgPool *pgxpool.Pool
	if cfg.DataSource != config.SourceFixtures {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()
		log.Println("connected to Postgres")
	}

	var rdb *redis.Client
	publisher := appointment.NoopPublisher
	if cfg.RedisEnabled {
		rdb, err = redisclient.NewRedisClient(rootCtx, redisclient.Options{
			Addr:       cfg.RedisAddr,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
			ClientName: "api-server",
		})
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		}()
		publisher = redisclient.NewPublisher(rdb, cfg.EventsChannel)
		log.Println("connected to Redis")
	}

	var source appointment.DataSource
	switch cfg.DataSource {
	case config.SourcePostgres:
		source = appointment.NewPgSource(pgPool)
	case config.SourceCache:
		locker := redisclient.NewRedisLocker(rdb, cfg.LockTTL)
		source = redisclient.NewSnapshotCache(rdb, appointment.NewPgSource(pgPool), locker, redisclient.DefaultSnapshotKey, cfg.CacheTTL)
	default:
		source = appointment.FixtureSource{Delay: 500 * time.Millisecond}
	}

	dash := appointment.NewDashboard(appointment.NewStore(), publisher, cfg.Now)

	// The collection loads in the background; reads report loading until
	// it completes.
	go func() {
		if err := dash.Load(rootCtx, source); err != nil {
			log.Printf("appointment load failed: %v", err)
		}
	}()

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.RouterConfig{
			Dashboard: dash,
			PgPool:    pgPool,
			Redis:     rdb,
			Env:       cfg.Env,
			Version:   version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}
