// pkg/config/database.go
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// PoolConfig holds database/sql connection pool limits
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// SnowflakeConfig holds Snowflake connection parameters
type SnowflakeConfig struct {
	User          string
	Password      string
	Account       string
	Warehouse     string
	Database      string // Default: CATALOG_NAME
	Role          string
	Authenticator gosnowflake.AuthType

	Pool PoolConfig

	// Sent as STATEMENT_TIMEOUT_IN_SECONDS
	QueryTimeout time.Duration
}

// PostgresConfig holds PostgreSQL connection parameters
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string // Default: CATALOG_NAME
	SSLMode  string

	Pool PoolConfig

	StatementTimeout time.Duration
}

var snowflakeAuthenticators = map[string]gosnowflake.AuthType{
	"snowflake":             gosnowflake.AuthTypeSnowflake,
	"oauth":                 gosnowflake.AuthTypeOAuth,
	"externalbrowser":       gosnowflake.AuthTypeExternalBrowser,
	"username_password_mfa": gosnowflake.AuthTypeUsernamePasswordMFA,
	"jwt":                   gosnowflake.AuthTypeJwt,
	"token":                 gosnowflake.AuthTypeTokenAccessor,
	"okta":                  gosnowflake.AuthTypeOkta,
}

// LoadSnowflakeConfig loads Snowflake configuration from environment variables
func LoadSnowflakeConfig(catalog string) (*SnowflakeConfig, error) {
	required, err := requireEnv("SNOWFLAKE_USER", "SNOWFLAKE_PASSWORD", "SNOWFLAKE_ACCOUNT", "SNOWFLAKE_WAREHOUSE")
	if err != nil {
		return nil, err
	}

	authName := strings.ToLower(getEnv("SNOWFLAKE_AUTHENTICATOR", "snowflake"))
	authenticator, ok := snowflakeAuthenticators[authName]
	if !ok {
		return nil, fmt.Errorf("unsupported SNOWFLAKE_AUTHENTICATOR %q (want one of %s)", authName, authenticatorNames())
	}

	return &SnowflakeConfig{
		User:          required["SNOWFLAKE_USER"],
		Password:      required["SNOWFLAKE_PASSWORD"],
		Account:       required["SNOWFLAKE_ACCOUNT"],
		Warehouse:     required["SNOWFLAKE_WAREHOUSE"],
		Database:      getEnv("SNOWFLAKE_DATABASE", catalog),
		Role:          getEnv("SNOWFLAKE_ROLE", ""),
		Authenticator: authenticator,
		Pool:          loadPoolConfig("SNOWFLAKE", PoolConfig{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 10 * time.Minute, ConnMaxIdleTime: 5 * time.Minute}),
		QueryTimeout:  getEnvAsSeconds("SNOWFLAKE_QUERY_TIMEOUT_SECONDS", 5*time.Minute),
	}, nil
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig(catalog string) (*PostgresConfig, error) {
	required, err := requireEnv("POSTGRES_USER", "POSTGRES_PASSWORD")
	if err != nil {
		return nil, err
	}

	database := getEnv("POSTGRES_DB", catalog)
	if database == "" {
		return nil, fmt.Errorf("POSTGRES_DB environment variable is required")
	}

	return &PostgresConfig{
		Host:             getEnv("POSTGRES_HOST", "localhost"),
		Port:             getEnvAsInt("POSTGRES_PORT", 5432),
		User:             required["POSTGRES_USER"],
		Password:         required["POSTGRES_PASSWORD"],
		Database:         database,
		SSLMode:          getEnv("POSTGRES_SSLMODE", "disable"),
		Pool:             loadPoolConfig("POSTGRES", PoolConfig{MaxOpenConns: 25, MaxIdleConns: 10, ConnMaxLifetime: 30 * time.Minute, ConnMaxIdleTime: 10 * time.Minute}),
		StatementTimeout: getEnvAsSeconds("POSTGRES_STATEMENT_TIMEOUT_SECONDS", 5*time.Minute),
	}, nil
}

// ConnectionString returns a key/value PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		quoteConnValue(c.Password),
		c.Database,
		c.SSLMode,
	)

	// Sent as a run-time parameter so every pooled connection gets it
	if c.StatementTimeout > 0 {
		dsn += fmt.Sprintf(" statement_timeout=%d", c.StatementTimeout.Milliseconds())
	}

	return dsn
}

// loadPoolConfig reads <PREFIX>_MAX_OPEN_CONNS and friends
func loadPoolConfig(prefix string, def PoolConfig) PoolConfig {
	return PoolConfig{
		MaxOpenConns:    getEnvAsInt(prefix+"_MAX_OPEN_CONNS", def.MaxOpenConns),
		MaxIdleConns:    getEnvAsInt(prefix+"_MAX_IDLE_CONNS", def.MaxIdleConns),
		ConnMaxLifetime: getEnvAsSeconds(prefix+"_CONN_MAX_LIFETIME_SECONDS", def.ConnMaxLifetime),
		ConnMaxIdleTime: getEnvAsSeconds(prefix+"_CONN_MAX_IDLE_TIME_SECONDS", def.ConnMaxIdleTime),
	}
}

// requireEnv returns the values of keys, failing on the first unset one
func requireEnv(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			return nil, fmt.Errorf("%s environment variable is required", key)
		}
		values[key] = v
	}
	return values, nil
}

func authenticatorNames() string {
	names := make([]string, 0, len(snowflakeAuthenticators))
	for name := range snowflakeAuthenticators {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// quoteConnValue quotes a key/value connection string value when needed
func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}
