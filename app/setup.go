package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahilchouksey/online-courses-api/api"
	"github.com/sahilchouksey/online-courses-api/config"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/router"
	"github.com/sahilchouksey/online-courses-api/services/cron"
	"github.com/sahilchouksey/online-courses-api/services/report"
	"github.com/sahilchouksey/online-courses-api/services/storage"
	"github.com/sahilchouksey/online-courses-api/utils/auth"
	"github.com/sahilchouksey/online-courses-api/utils/cache"
	"github.com/sahilchouksey/online-courses-api/utils/logger"
	"github.com/sahilchouksey/online-courses-api/utils/middleware"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	log := logger.New(env.GO_ENV)

	// Initialize GORM database connection
	store, err := database.StartGORM(env, log)
	if err != nil {
		log.Error().Msg("check that the database is running (make docker-up or make db-up)")
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize database tables: %w", err)
	}

	// Redis is optional: without it revocations are read from the database
	// and login brute force protection is off.
	var redisCache *cache.RedisCache
	if env.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: env.TokenTTL(),
		Issuer: env.JWT_ISSUER,
	})
	blacklist := auth.NewBlacklistService(store.GetDB(), redisCache)

	cronManager := cron.NewCronManager(store.GetDB(), log, cron.Config{
		MaxAttempts: env.REPORT_MAX_ATTEMPTS,
		LockTTL:     env.ReportTimeout() + time.Minute,
	}, redisCache)
	defer cronManager.Stop()

	reportJob := report.NewJob(report.Config{
		Command:   env.REPORT_COMMAND,
		OutputDir: env.REPORT_OUTPUT_DIR,
		Timeout:   env.ReportTimeout(),
	}, newArchiver(env, log), log)

	// Initialize scheduled jobs (only if enabled via environment variable)
	if env.CRON_ENABLED {
		if err := cronManager.Schedule(env.REPORT_SCHEDULE, reportJob); err != nil {
			return err
		}
		if err := cronManager.Schedule("0 0 2 * * *", cron.NewCleanupJob(store.GetDB(), blacklist, 0)); err != nil {
			return err
		}
		cronManager.Start()
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), log)
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   time.Minute,
		AccessLog:         log.With().Str("component", "http").Logger().Level(zerolog.InfoLevel),
	})

	router.SetupRoutes(app, router.Dependencies{
		Store:      store,
		JWT:        jwtManager,
		Blacklist:  blacklist,
		Redis:      redisCache,
		Dispatcher: cronManager,
		ReportJob:  reportJob,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

// newArchiver returns the report bucket client, or nil when no bucket is configured
func newArchiver(env *config.EnvironmentVariable, log zerolog.Logger) report.Archiver {
	cfg := storage.SpacesConfig{
		AccessKey: env.REPORT_BUCKET_ACCESS_KEY,
		SecretKey: env.REPORT_BUCKET_SECRET_KEY,
		Bucket:    env.REPORT_BUCKET,
		Region:    env.REPORT_BUCKET_REGION,
		Endpoint:  env.REPORT_BUCKET_ENDPOINT,
	}
	if !cfg.Enabled() {
		return nil
	}

	client, err := storage.NewSpacesClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("report archiving disabled")
		return nil
	}
	return client
}
