// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCatalogConnector creates the connector for the configured catalog driver.
// It returns nil without error when no catalog is configured.
func (f *ConnectorFactory) CreateCatalogConnector(ctx context.Context) (DatabaseConnector, error) {
	var (
		conn DatabaseConnector
		err  error
	)

	switch f.cfg.Catalog.Driver {
	case config.DriverNone, "":
		f.logger.Info("No catalog configured")
		return nil, nil
	case config.DriverSnowflake:
		conn, err = f.CreateSnowflakeConnector(ctx)
	case config.DriverPostgres:
		conn, err = f.CreatePostgresConnector(ctx)
	case config.DriverSQLite:
		conn, err = f.CreateSQLiteConnector(ctx)
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", f.cfg.Catalog.Driver)
	}
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	f.logger.Info("Creating Snowflake connector")

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake, f.cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}

// CreateSQLiteConnector creates a new SQLite connector
func (f *ConnectorFactory) CreateSQLiteConnector(ctx context.Context) (*SQLiteConnector, error) {
	f.logger.Info("Creating SQLite connector")

	connector, err := NewSQLiteConnector(ctx, f.cfg.Catalog.SQLitePath, f.cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite connector: %w", err)
	}

	return connector, nil
}
