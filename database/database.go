package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"civic-feedback-server/config"
	"civic-feedback-server/logger"
	"civic-feedback-server/models"
)

var DB *gorm.DB

// Initialize sets up the database connection from AppConfig and runs migrations
func Initialize() error {
	cfg := config.AppConfig.Database
	if cfg.URL == "" {
		return fmt.Errorf("DB_URL is required. Set DB_URL to a Postgres URL or a sqlite file path")
	}

	db, err := Open(cfg.Driver, cfg.URL)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects with the given driver, checks the connection and migrates
// the schema
func Open(driver, url string) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := gormlogger.New(
		&logger.Log,
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql":
		logger.Info().Str("target", describePostgresURL(url)).Msg("🔌 Connecting to postgres")
		dialector = postgres.Open(url)
	case "sqlite":
		logger.Info().Str("target", url).Msg("🔌 Opening sqlite database")
		dialector = sqlite.Open(url)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info().Msg("✅ Successfully connected to database")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info().Msg("✅ Database migrations completed successfully")

	return db, nil
}

// runMigrations creates or updates database tables
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&models.FeedbackRecord{})
}

// describePostgresURL renders host and database name without credentials.
// Keyword/value connection strings are returned as "configured".
func describePostgresURL(url string) string {
	if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
		return "configured"
	}
	dsn, err := pq.ParseURL(url)
	if err != nil {
		return "unparseable url"
	}

	var host, name string
	for _, part := range strings.Fields(dsn) {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, "'")
		switch key {
		case "host":
			host = value
		case "dbname":
			name = value
		}
	}
	return host + "/" + name
}

func GetDB() *gorm.DB {
	return DB
}
