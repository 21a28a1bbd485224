package ebs

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver

	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/config"
	"github.com/ekaya-inc/enrollment-sync/pkg/logging"
	"github.com/ekaya-inc/enrollment-sync/pkg/retry"
)

// Client reads enrollment rows from the EBS SQL Server database. The
// source is read-only; this client never writes.
type Client struct {
	db     *sql.DB
	logger *zap.Logger
}

// Connect opens and verifies a connection to EBS. Transient connect
// failures are retried with backoff; the sync itself never retries.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Client, error) {
	connStr := connectionString(cfg)
	log := logger.Named("ebs")
	log.Info("Connecting to EBS", zap.String("dsn", logging.SanitizeConnectionString(connStr)))

	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*sql.DB, error) {
		db, err := sql.Open("sqlserver", connStr)
		if err != nil {
			return nil, fmt.Errorf("open connection: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping failed: %w", err)
		}
		return db, nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to EBS: %s", logging.SanitizeError(err))
	}

	return &Client{db: db, logger: log}, nil
}

// NewClient wraps an existing database handle. Used by tests.
func NewClient(db *sql.DB, logger *zap.Logger) *Client {
	return &Client{db: db, logger: logger.Named("ebs")}
}

// Close releases the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// connectionString builds a sqlserver:// URL for SQL authentication.
func connectionString(cfg *config.DatabaseConfig) string {
	query := url.Values{}
	query.Add("database", cfg.Name)

	if cfg.Encrypt {
		query.Add("encrypt", "true")
	} else {
		query.Add("encrypt", "false")
	}
	if cfg.TrustServerCertificate {
		query.Add("TrustServerCertificate", "true")
	}
	if cfg.ConnectTimeout > 0 {
		query.Add("connection timeout", fmt.Sprintf("%d", cfg.ConnectTimeout))
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Server,
		cfg.Port,
		query.Encode(),
	)
}
