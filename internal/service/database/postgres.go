package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kapu/polyglot-connect-go/internal/constants"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/kapu/polyglot-connect-go/pkg/errors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type PostgresService struct {
	db     *sql.DB
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN renders the lib/pq keyword/value connection string.
func (c PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

func NewPostgresService(cfg PostgresConfig, logger *zap.Logger) (*PostgresService, error) {
	logger = util.OrNop(logger)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.NewSourceError("failed to open postgres", "postgres", "open", err)
	}

	// Roster reads happen once at startup; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), constants.PostgresConfig.PingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewSourceError("failed to ping postgres", "postgres", "ping", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return NewPostgresServiceWithDB(db, logger), nil
}

// NewPostgresServiceWithDB wraps an already opened handle.
func NewPostgresServiceWithDB(db *sql.DB, logger *zap.Logger) *PostgresService {
	return &PostgresService{
		db:     db,
		logger: util.OrNop(logger),
	}
}

func (ps *PostgresService) GetDB() *sql.DB {
	return ps.db
}

func (ps *PostgresService) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

func (ps *PostgresService) Ping(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}
