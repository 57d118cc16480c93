package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration values of the API server.
type Config struct {
	AppPort     string `env:"PORT" envDefault:"5000"`
	BodyLimitMB int    `env:"BODY_LIMIT_MB" envDefault:"50"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT"`
	DBUser     string `env:"DB_USER" envDefault:"root"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"project_management"`

	// Snapshot backups are disabled unless an endpoint is set.
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"portfolio-snapshots"`
	MinioSSL       bool   `env:"MINIO_SSL" envDefault:"false"`
}

// WebConfig holds the configuration of the browser UI server.
type WebConfig struct {
	Port        string        `env:"WEB_PORT" envDefault:"3000"`
	APIURL      string        `env:"API_URL" envDefault:"http://localhost:5000/api"`
	APITimeout  time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	BodyLimitMB int           `env:"BODY_LIMIT_MB" envDefault:"50"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig loads the API server configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBPort == "" {
			cfg.DBPort = "5432"
		}
	case DriverMySQL:
		if cfg.DBPort == "" {
			cfg.DBPort = "3306"
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("database configuration is incomplete")
	}
	if cfg.BodyLimitMB <= 0 {
		return nil, fmt.Errorf("invalid BODY_LIMIT_MB value: %d", cfg.BodyLimitMB)
	}
	if cfg.MinioEnabled() && (cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" || cfg.MinioBucket == "") {
		return nil, fmt.Errorf("minio configuration is incomplete")
	}
	return cfg, nil
}

// LoadWebConfig loads the UI server configuration from environment variables.
func LoadWebConfig() (*WebConfig, error) {
	cfg := &WebConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("API_URL must not be empty")
	}
	if cfg.BodyLimitMB <= 0 {
		return nil, fmt.Errorf("invalid BODY_LIMIT_MB value: %d", cfg.BodyLimitMB)
	}
	return cfg, nil
}

// MinioEnabled reports whether snapshot backups to object storage are configured.
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

// BodyLimit returns the request body ceiling in bytes.
func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

// BodyLimit returns the request body ceiling in bytes.
func (c *WebConfig) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

// Dialector returns the GORM dialector for the configured driver.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DBDriver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
		return postgres.Open(dsn), nil
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.DBName), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}

// ConnectDatabase opens the single GORM handle used for the lifetime of the process.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == DriverSQLite {
		// every connection to :memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
