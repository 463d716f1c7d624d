package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"CareDesk/config"
	"CareDesk/config/db"
	"CareDesk/config/logger"
	"CareDesk/config/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// Runtime is what the bootstrap hands to the handlers once connected.
type Runtime struct {
	Config *config.Config
	Client *mongo.Client
	DB     *mongo.Database
	Cache  redis.Cache
}

type Options struct {
	Config *config.Config

	MongoEnabled bool
	CacheEnabled bool

	MigrationEnabled bool
	MigrationHandler func(ctx context.Context, rt *Runtime) error

	// TaskHandler runs once after migrations; Start returns when it does.
	TaskHandler func(ctx context.Context, rt *Runtime) error

	JobsEnabled bool
	JobsHandler func(rt *Runtime) (stop func(), err error)

	WebServerEnabled    bool
	WebServerPreHandler func(r *gin.Engine, rt *Runtime)

	ShutdownTimeout time.Duration
}

func GetDefaultOptions(cfg *config.Config) Options {
	return Options{
		Config:           cfg,
		MongoEnabled:     true,
		CacheEnabled:     true,
		MigrationEnabled: true,
		JobsEnabled:      true,
		WebServerEnabled: true,
		ShutdownTimeout:  10 * time.Second,
	}
}

/*
* Set up logging, then connect MongoDB and the cache
* Apply migrations and run the one shot task when given
* Start the jobs and serve HTTP until the process is signalled
 */
func Start(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		return errors.New("server: config is required")
	}
	logger.Setup(cfg.LogLevel, cfg.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := &Runtime{Config: cfg}

	if opts.MongoEnabled {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		client, database, err := db.Connect(connectCtx, cfg.ConnectionString(), cfg.DBName)
		cancel()
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		rt.Client, rt.DB = client, database
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}()
	}

	if opts.CacheEnabled {
		rt.Cache = openCache(ctx, cfg)
		defer rt.Cache.Close()
	}

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		if err := opts.MigrationHandler(ctx, rt); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	if opts.TaskHandler != nil {
		return opts.TaskHandler(ctx, rt)
	}

	if opts.JobsEnabled && opts.JobsHandler != nil {
		stopJobs, err := opts.JobsHandler(rt)
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		if stopJobs != nil {
			defer stopJobs()
		}
	}

	if !opts.WebServerEnabled {
		return nil
	}
	return serve(ctx, opts, rt)
}

// openCache prefers Redis and falls back to the in-process cache.
func openCache(ctx context.Context, cfg *config.Config) redis.Cache {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, using in-memory cache")
		return redis.NewMemoryCache()
	}
	c, err := redis.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		return redis.NewMemoryCache()
	}
	return c
}

func NewEngine(cfg *config.Config) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.Middleware(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedPaths([]string{"/admin/appointments/export"})))
	return r
}

func serve(ctx context.Context, opts Options, rt *Runtime) error {
	r := NewEngine(rt.Config)
	if opts.WebServerPreHandler != nil {
		opts.WebServerPreHandler(r, rt)
	}

	srv := &http.Server{
		Addr:              ":" + rt.Config.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", rt.Config.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
