package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahilchouksey/online-courses-api/config"
	"github.com/sahilchouksey/online-courses-api/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access for repositories
	GetDB() *gorm.DB
}

type GORMStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Dialector picks the GORM driver for DB_DRIVER
func Dialector(env *config.EnvironmentVariable) (gorm.Dialector, error) {
	switch env.DB_DRIVER {
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.DB_HOST,
			env.DB_USER_NAME,
			env.DB_PASSWORD,
			env.DB_NAME,
			env.DB_PORT,
			env.DB_SSL_MODE,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			env.DB_USER_NAME,
			env.DB_PASSWORD,
			env.DB_HOST,
			env.DB_PORT,
			env.DB_NAME,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(env.DB_NAME), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DB_DRIVER)
	}
}

// StartGORM opens the configured database and applies pool settings
func StartGORM(env *config.EnvironmentVariable, log zerolog.Logger) (*GORMStore, error) {
	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true, // surface unique violations as gorm.ErrDuplicatedKey
		PrepareStmt:    env.DB_DRIVER != "sqlite",
	})
	if err != nil {
		log.Error().Err(err).Str("driver", env.DB_DRIVER).Msg("unable to connect to database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if env.DB_DRIVER == "sqlite" {
		// a single writer avoids "database is locked" and keeps :memory: databases shared
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info().Str("driver", env.DB_DRIVER).Msg("connected to database")

	return &GORMStore{db: db, log: log}, nil
}

// StartSQLite opens an SQLite database at dsn, e.g. ":memory:"
func StartSQLite(dsn string) (*GORMStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &GORMStore{db: db, log: zerolog.Nop()}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	s.log.Info().Msg("running AutoMigrate")

	err := s.db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.JWTTokenBlacklist{},
		&model.CronJobLog{},
	)
	if err != nil {
		s.log.Error().Err(err).Msg("AutoMigrate failed")
		return err
	}

	s.log.Info().Msg("AutoMigrate completed")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	s.log.Info().Msg("closing database connection")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in repositories
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
