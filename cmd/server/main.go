package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-insights/internal/api"
	"github.com/ignite/campaign-insights/internal/attribution"
	"github.com/ignite/campaign-insights/internal/cache"
	"github.com/ignite/campaign-insights/internal/config"
	"github.com/ignite/campaign-insights/internal/insights"
	"github.com/ignite/campaign-insights/internal/journey"
	"github.com/ignite/campaign-insights/internal/movement"
	"github.com/ignite/campaign-insights/internal/pkg/logger"
	"github.com/ignite/campaign-insights/internal/repository/memory"
	"github.com/ignite/campaign-insights/internal/repository/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	var (
		campaigns     attribution.CampaignStore
		touches       attribution.TouchStore
		snapshots     attribution.SnapshotStore
		opportunities attribution.OpportunityStore
		db            *sql.DB
	)

	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("open database", "error", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		if err := db.Ping(); err != nil {
			logger.Error("ping database", "error", err)
			os.Exit(1)
		}
		campaigns = postgres.NewCampaignRepo(db)
		touches = postgres.NewTouchRepo(db)
		snapshots = postgres.NewSnapshotRepo(db)
		opportunities = postgres.NewOpportunityRepo(db)
		logger.Info("using postgres stores")
	} else {
		store := memory.NewStore()
		seedDemo(store)
		campaigns, touches, snapshots, opportunities = store, store, store, store
		logger.Warn("no database configured, serving seeded in-memory data")
	}

	var redisClient *redis.Client
	var reportCache cache.Cache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		if cfg.Redis.Addr != "" {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			reportCache = cache.NewRedisCache(redisClient, "", ttl)
			logger.Info("report cache: redis", "addr", cfg.Redis.Addr, "ttl", ttl)
		} else {
			reportCache = cache.NewMemoryCache(ttl)
			logger.Info("report cache: in-memory", "ttl", ttl)
		}
	}

	engine := attribution.NewEngine(touches, snapshots)
	detector := movement.NewDetector(touches, snapshots)
	journeys := journey.NewAttributor(touches, snapshots, opportunities)
	generator := insights.NewGenerator(touches, snapshots, opportunities)

	handlers := api.NewHandlers(campaigns, engine, detector, journeys, generator,
		reportCache, cfg.Engine.MovementWindowDays)
	health := api.NewHealthChecker(db, redisClient)
	server := api.NewServer(cfg.Server, handlers, health)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
}
