package main

import (
	"github.com/sahilchouksey/online-courses-api/config"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/utils/logger"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		l := logger.New("")
		l.Fatal().Err(err).Msg("failed to load .env")
	}
	env, err := config.Get()
	if err != nil {
		l := logger.New("")
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(env.GO_ENV)

	store, err := database.StartGORM(env, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := store.HealthCheck(); err != nil {
		log.Fatal().Err(err).Msg("database health check failed")
	}

	log.Info().
		Strs("tables", []string{"users", "categories", "courses", "lessons", "enrollments", "jwt_token_blacklist", "cron_job_logs"}).
		Msg("migrations completed")
}
