package db

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vasiliy-maslov/crm-service/internal/config"
	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/logging"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Database wraps the gorm handle together with the driver it was opened with.
type Database struct {
	Gorm   *gorm.DB
	Driver string
}

// New opens the configured database and brings its schema up to date when
// auto migration is enabled.
func New(cfg config.DatabaseConfig) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logging.GormLogger(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// one writer at a time keeps sqlite from returning SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	d := &Database{Gorm: gdb, Driver: cfg.Driver}
	log.Info().Str("driver", cfg.Driver).Msg("Connected to database")

	if cfg.AutoMigrate {
		if err := d.Migrate(cfg); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return d, nil
}

// Migrate applies the SQL migrations on postgres and gorm auto-migration on sqlite.
func (d *Database) Migrate(cfg config.DatabaseConfig) error {
	if d.Driver == config.DriverSQLite {
		return AutoMigrate(d.Gorm)
	}
	return applyMigrations(cfg.MigrateURL())
}

// AutoMigrate creates the schema from the gorm models.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&customer.Customer{}, &product.Product{}, &order.Order{}); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

func applyMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize migration instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source_err", srcErr).AnErr("db_err", dbErr).Msg("Failed to close migrator")
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info().Msg("New migrations applied successfully")
	return nil
}

// SQLDriverName is the database/sql driver name backing the connection,
// as expected by sqlx for bind variable rebinding.
func (d *Database) SQLDriverName() string {
	if d.Driver == config.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

func (d *Database) Close() {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connection")
		return
	}
	log.Info().Msg("Database connection closed")
}

func sqliteDSN(path string) string {
	return path + "?_foreign_keys=on"
}
