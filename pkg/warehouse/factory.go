package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/microsoft/go-mssqldb" // sqlserver driver for database/sql
	"go.uber.org/zap"

	"github.com/datacustodian/governance-autopilot/pkg/apperrors"
	"github.com/datacustodian/governance-autopilot/pkg/logging"
	"github.com/datacustodian/governance-autopilot/pkg/retry"
)

// Config contains warehouse connection options.
type Config struct {
	Type     string `yaml:"type" env:"WAREHOUSE_TYPE" env-default:"postgres"` // "postgres" or "mssql"
	Host     string `yaml:"host" env:"WAREHOUSE_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"WAREHOUSE_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"WAREHOUSE_USER" env-default:""`
	Password string `yaml:"-" env:"WAREHOUSE_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"WAREHOUSE_DATABASE" env-default:""`
	SSLMode  string `yaml:"ssl_mode" env:"WAREHOUSE_SSLMODE" env-default:"require"`

	// SQL Server options
	Encrypt                bool `yaml:"encrypt" env:"WAREHOUSE_ENCRYPT" env-default:"true"`
	TrustServerCertificate bool `yaml:"trust_server_certificate" env:"WAREHOUSE_TRUST_SERVER_CERT" env-default:"false"`
}

// postgresConnString builds a keyword/value PostgreSQL connection string.
func (c *Config) postgresConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// mssqlConnString builds a sqlserver:// URL for go-mssqldb.
func (c *Config) mssqlConnString() string {
	query := url.Values{}
	query.Set("database", c.Database)
	query.Set("encrypt", fmt.Sprintf("%t", c.Encrypt))
	if c.TrustServerCertificate {
		query.Set("trustservercertificate", "true")
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Connect establishes a warehouse session for the configured dialect.
// Pool creation is retried with backoff for transient network failures;
// an unusable configuration surfaces as ErrNoSession with a descriptive
// message, since nothing downstream can run without a session.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger) (Session, error) {
	switch cfg.Type {
	case "postgres":
		return connectPostgres(ctx, cfg, logger)
	case "mssql":
		return connectMSSQL(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unsupported warehouse type %q", apperrors.ErrNoSession, cfg.Type)
	}
}

func connectPostgres(ctx context.Context, cfg *Config, logger *zap.Logger) (Session, error) {
	connStr := cfg.postgresConnString()
	logger.Info("Connecting to warehouse",
		zap.String("type", "postgres"),
		zap.String("conn", logging.SanitizeConnectionString(connStr)))

	pool, err := retry.DoWithResult(ctx, nil, func() (*pgxpool.Pool, error) {
		p, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return nil, err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect to postgres warehouse: %s",
			apperrors.ErrNoSession, logging.SanitizeError(err))
	}

	return NewPostgresSession(pool), nil
}

func connectMSSQL(ctx context.Context, cfg *Config, logger *zap.Logger) (Session, error) {
	connStr := cfg.mssqlConnString()
	logger.Info("Connecting to warehouse",
		zap.String("type", "mssql"),
		zap.String("conn", logging.SanitizeConnectionString(connStr)))

	db, err := retry.DoWithResult(ctx, nil, func() (*sql.DB, error) {
		d, err := sql.Open("sqlserver", connStr)
		if err != nil {
			return nil, err
		}
		if err := d.PingContext(ctx); err != nil {
			d.Close()
			return nil, err
		}
		return d, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect to mssql warehouse: %s",
			apperrors.ErrNoSession, logging.SanitizeError(err))
	}

	return NewMSSQLSession(db), nil
}
