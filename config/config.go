package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string `envconfig:"GO_ENV" default:"development"`
	PORT   int    `envconfig:"PORT" default:"8080"`

	// Database Configuration
	DB_DRIVER    string `envconfig:"DB_DRIVER" default:"postgres"` // postgres, mysql, sqlite
	DB_USER_NAME string `envconfig:"DB_USER_NAME"`
	DB_PASSWORD  string `envconfig:"DB_PASSWORD"`
	DB_NAME      string `envconfig:"DB_NAME" default:"online_courses"`
	DB_HOST      string `envconfig:"DB_HOST" default:"localhost"`
	DB_PORT      string `envconfig:"DB_PORT" default:"5432"`
	DB_SSL_MODE  string `envconfig:"DB_SSL_MODE" default:"disable"`

	// JWT Configuration
	JWT_SECRET      string `envconfig:"JWT_SECRET" required:"true"`
	JWT_ISSUER      string `envconfig:"JWT_ISSUER" default:"online-courses-api"`
	JWT_TTL_MINUTES int    `envconfig:"JWT_TTL_MINUTES" default:"60"`

	// Redis Configuration
	REDIS_URL string `envconfig:"REDIS_URL"`

	// HTTP
	ALLOWED_ORIGINS     string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RATE_LIMIT_REQUESTS int    `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`

	// Background jobs
	CRON_ENABLED           bool   `envconfig:"CRON_ENABLED" default:"true"`
	REPORT_COMMAND         string `envconfig:"REPORT_COMMAND" default:"./bin/coursereport"`
	REPORT_OUTPUT_DIR      string `envconfig:"REPORT_OUTPUT_DIR" default:"storage/reports"`
	REPORT_SCHEDULE        string `envconfig:"REPORT_SCHEDULE" default:"0 0 3 * * *"`
	REPORT_TIMEOUT_SECONDS int    `envconfig:"REPORT_TIMEOUT_SECONDS" default:"300"`
	REPORT_MAX_ATTEMPTS    int    `envconfig:"REPORT_MAX_ATTEMPTS" default:"3"`

	// Report archive (S3 compatible, e.g. DigitalOcean Spaces)
	REPORT_BUCKET            string `envconfig:"REPORT_BUCKET"`
	REPORT_BUCKET_REGION     string `envconfig:"REPORT_BUCKET_REGION"`
	REPORT_BUCKET_ENDPOINT   string `envconfig:"REPORT_BUCKET_ENDPOINT"`
	REPORT_BUCKET_ACCESS_KEY string `envconfig:"REPORT_BUCKET_ACCESS_KEY"`
	REPORT_BUCKET_SECRET_KEY string `envconfig:"REPORT_BUCKET_SECRET_KEY"`

	// Seeding
	ADMIN_EMAIL    string `envconfig:"ADMIN_EMAIL"`
	ADMIN_PASSWORD string `envconfig:"ADMIN_PASSWORD"`
}

func Get() (*EnvironmentVariable, error) {
	var env EnvironmentVariable
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if env.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	if env.JWT_TTL_MINUTES <= 0 {
		env.JWT_TTL_MINUTES = 60
	}
	if env.REPORT_MAX_ATTEMPTS <= 0 {
		env.REPORT_MAX_ATTEMPTS = 1
	}

	return &env, nil
}

// IsProduction reports whether GO_ENV is production
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

// TokenTTL returns the access token lifetime
func (e *EnvironmentVariable) TokenTTL() time.Duration {
	return time.Duration(e.JWT_TTL_MINUTES) * time.Minute
}

// ReportTimeout returns the maximum runtime of one report process
func (e *EnvironmentVariable) ReportTimeout() time.Duration {
	return time.Duration(e.REPORT_TIMEOUT_SECONDS) * time.Second
}
