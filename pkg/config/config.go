// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Output file formats
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
)

// CatalogDriver selects where the cleaned table is published
type CatalogDriver string

const (
	DriverNone      CatalogDriver = "none"
	DriverPostgres  CatalogDriver = "postgres"
	DriverSnowflake CatalogDriver = "snowflake"
	DriverSQLite    CatalogDriver = "sqlite"
)

// Config represents the application configuration
type Config struct {
	// Input
	InputPath        string
	InputCompression string

	// File output
	OutputPath   string
	OutputFormat string
	ReportPath   string

	// Catalog output
	Catalog   CatalogConfig
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// Job settings
	AuditEnabled   bool
	ChunkSize      int
	WorkerPoolSize int

	// Logging
	LogLevel  string
	LogFormat string
}

// CatalogConfig names the destination table <Name>.<Schema>.<Table>
type CatalogConfig struct {
	Driver     CatalogDriver
	Name       string
	Schema     string
	Table      string
	SQLitePath string
}

// QualifiedName returns catalog.schema.table
func (c CatalogConfig) QualifiedName() string {
	return c.Name + "." + c.Schema + "." + c.Table
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one exists. Variables already set win over the file.
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:        getEnv("INPUT_PATH", ""),
		InputCompression: getEnv("INPUT_COMPRESSION", ""),
		OutputPath:       getEnv("OUTPUT_PATH", "cleaned/cleaned_data.parquet"),
		OutputFormat:     strings.ToLower(getEnv("OUTPUT_FORMAT", FormatParquet)),
		ReportPath:       getEnv("REPORT_PATH", ""),
		Catalog: CatalogConfig{
			Driver:     CatalogDriver(strings.ToLower(getEnv("CATALOG_DRIVER", string(DriverNone)))),
			Name:       getEnv("CATALOG_NAME", "netflix_catalog"),
			Schema:     getEnv("CATALOG_SCHEMA", "netflix_schema"),
			Table:      getEnv("CATALOG_TABLE", "cleaned_data"),
			SQLitePath: getEnv("SQLITE_PATH", "netflix_catalog.db"),
		},
		AuditEnabled:   getEnvAsBool("AUDIT_ENABLED", false),
		ChunkSize:      getEnvAsInt("CHUNK_SIZE", 5000),
		WorkerPoolSize: getEnvAsInt("WORKER_POOL_SIZE", 0), // 0 means use runtime.NumCPU()
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	if cfg.WorkerPoolSize == 0 {
		cfg.WorkerPoolSize = runtime.NumCPU()
	}

	// Load database configurations only for the driver in use
	switch cfg.Catalog.Driver {
	case DriverSnowflake:
		snowConfig, err := LoadSnowflakeConfig(cfg.Catalog.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		cfg.Snowflake = snowConfig
	case DriverPostgres:
		pgConfig, err := LoadPostgresConfig(cfg.Catalog.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		cfg.Postgres = pgConfig
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("INPUT_PATH environment variable is required")
	}

	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}

	switch c.OutputFormat {
	case FormatParquet, FormatCSV:
	default:
		return fmt.Errorf("unsupported output format %q", c.OutputFormat)
	}

	switch c.Catalog.Driver {
	case DriverNone:
	case DriverSnowflake:
		if c.Snowflake == nil {
			return errors.New("snowflake configuration is required")
		}
	case DriverPostgres:
		if c.Postgres == nil {
			return errors.New("postgreSQL configuration is required")
		}
	case DriverSQLite:
		if c.Catalog.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite catalog driver")
		}
	default:
		return fmt.Errorf("unsupported catalog driver %q", c.Catalog.Driver)
	}

	if c.Catalog.Driver != DriverNone && (c.Catalog.Schema == "" || c.Catalog.Table == "") {
		return errors.New("catalog schema and table are required")
	}

	if c.AuditEnabled && c.Catalog.Driver == DriverNone {
		return errors.New("audit trail requires a catalog driver")
	}

	if c.ChunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}

	if c.WorkerPoolSize < 0 {
		return errors.New("worker pool size cannot be negative")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	return nil
}

// loadDotEnv reads a .env file into the environment if it exists
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSeconds(key string, defaultValue time.Duration) time.Duration {
	seconds := getEnvAsInt(key, -1)
	if seconds < 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
