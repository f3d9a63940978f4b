package db

import (
	"fmt"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PgDB *gorm.DB

// InitPostgresORM opens the GORM handle the write-side repositories run
// on. TranslateError is required: the repositories rely on gorm's
// ErrDuplicatedKey / ErrForeignKeyViolated instead of driver errors.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	PgDB = db
	logging.Info("Connected to Postgres via GORM")
	return db, nil
}
