package main

import (
	"flag"
	"os"

	"github.com/sahilchouksey/online-courses-api/config"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/utils/logger"
)

func main() {
	users := flag.Int("users", 0, "number of students to create (default 20)")
	courses := flag.Int("courses", 0, "number of courses to create (default 20)")
	seed := flag.Int64("seed", 0, "random seed for reproducible data")
	flag.Parse()

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

	cfg := database.DefaultSeedConfig()
	if env.ADMIN_EMAIL != "" {
		cfg.AdminEmail = env.ADMIN_EMAIL
	}
	if env.ADMIN_PASSWORD != "" {
		cfg.AdminPassword = env.ADMIN_PASSWORD
	}
	if *users > 0 {
		cfg.Users = *users
	}
	if *courses > 0 {
		cfg.Courses = *courses
	}
	cfg.Seed = *seed

	if err := database.NewSeeder(store.GetDB(), cfg, log).SeedAll(); err != nil {
		log.Error().Err(err).Msg("seeding failed")
		store.Close()
		os.Exit(1)
	}

	log.Info().Str("email", cfg.AdminEmail).Msg("log in with the admin account")
}
