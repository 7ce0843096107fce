package database

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/sahilchouksey/online-courses-api/config"
)

// OpenSQL opens a plain database/sql connection for tools that run raw
// queries outside GORM. Only postgres and mysql are supported.
func OpenSQL(env *config.EnvironmentVariable) (*sql.DB, error) {
	var driver, dsn string

	switch env.DB_DRIVER {
	case "", "postgres":
		driver = "postgres"
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			env.DB_HOST, env.DB_PORT, env.DB_USER_NAME, env.DB_PASSWORD, env.DB_NAME, env.DB_SSL_MODE,
		)
	case "mysql":
		driver = "mysql"
		dsn = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true",
			env.DB_USER_NAME, env.DB_PASSWORD, env.DB_HOST, env.DB_PORT, env.DB_NAME,
		)
	default:
		return nil, fmt.Errorf("raw SQL access is not supported for DB_DRIVER %q", env.DB_DRIVER)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach %s database: %w", driver, err)
	}

	return db, nil
}
