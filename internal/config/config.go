package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Inventory InventoryConfig `yaml:"inventory"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

type AppConfig struct {
	Name      string `yaml:"name"`
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	Path            string        `yaml:"path"` // sqlite only
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// DSN returns the connection string understood by the configured gorm driver.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the golang-migrate database URL for postgres. User and
// password are escaped.
func (c DatabaseConfig) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type InventoryConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
	RestockIncrement  int `yaml:"restock_increment"`
}

type JobsConfig struct {
	GraphQLEndpoint string        `yaml:"graphql_endpoint"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	MetricsAddr     string        `yaml:"metrics_addr"`

	Heartbeat JobConfig `yaml:"heartbeat"`
	LowStock  JobConfig `yaml:"low_stock"`
	Reminders JobConfig `yaml:"reminders"`

	ReminderWindow time.Duration `yaml:"reminder_window"`
}

type JobConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	LogFile  string        `yaml:"log_file"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns a configuration that runs locally against sqlite.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "crm-service",
			Port:     "8000",
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			DBName:          "crm",
			SSLMode:         "disable",
			Path:            "crm.db",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Inventory: InventoryConfig{
			LowStockThreshold: 10,
			RestockIncrement:  10,
		},
		Jobs: JobsConfig{
			GraphQLEndpoint: "http://localhost:8000/graphql",
			RequestTimeout:  10 * time.Second,
			Heartbeat: JobConfig{
				Enabled:  true,
				Interval: 5 * time.Minute,
				LogFile:  "/tmp/crm_heartbeat_log.txt",
				Timeout:  5 * time.Second,
			},
			LowStock: JobConfig{
				Enabled:  true,
				Interval: 12 * time.Hour,
				LogFile:  "/tmp/low_stock_updates_log.txt",
			},
			Reminders: JobConfig{
				Enabled:  true,
				Interval: 24 * time.Hour,
				LogFile:  "/tmp/order_reminders_log.txt",
			},
			ReminderWindow: 7 * 24 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// an optional .env file and finally the process environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.App.Port, "APP_PORT")
	setString(&cfg.App.LogLevel, "LOG_LEVEL")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Database.Path, "DB_PATH")

	setString(&cfg.Jobs.GraphQLEndpoint, "CRM_GRAPHQL_ENDPOINT")
	setString(&cfg.Jobs.MetricsAddr, "CRM_JOBS_METRICS_ADDR")
	setString(&cfg.Jobs.Heartbeat.LogFile, "CRM_HEARTBEAT_LOG")
	setString(&cfg.Jobs.LowStock.LogFile, "CRM_LOW_STOCK_LOG")
	setString(&cfg.Jobs.Reminders.LogFile, "CRM_REMINDERS_LOG")

	if err := setBool(&cfg.App.LogPretty, "LOG_PRETTY"); err != nil {
		return err
	}
	if err := setBool(&cfg.Database.AutoMigrate, "DB_AUTO_MIGRATE"); err != nil {
		return err
	}
	if err := setInt(&cfg.Inventory.LowStockThreshold, "CRM_LOW_STOCK_THRESHOLD"); err != nil {
		return err
	}
	if err := setInt(&cfg.Inventory.RestockIncrement, "CRM_RESTOCK_INCREMENT"); err != nil {
		return err
	}
	return setDuration(&cfg.Jobs.RequestTimeout, "CRM_REQUEST_TIMEOUT")
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			return errors.New("DB_HOST, DB_NAME and DB_USER are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.App.Port == "" {
		return errors.New("APP_PORT is required")
	}
	if c.Inventory.LowStockThreshold < 0 {
		return errors.New("low stock threshold cannot be negative")
	}
	if c.Inventory.RestockIncrement <= 0 {
		return errors.New("restock increment must be positive")
	}
	if c.Jobs.GraphQLEndpoint == "" {
		return errors.New("graphql endpoint is required")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
