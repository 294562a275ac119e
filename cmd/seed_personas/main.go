// Command seed_personas copies a roster document into the PostgreSQL table
// read by the postgres roster source.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kapu/polyglot-connect-go/internal/config"
	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/service/database"
	"github.com/kapu/polyglot-connect-go/internal/service/roster"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	rosterFile = flag.String("file", "", "Roster file (JSON or YAML); the embedded roster when empty")
	table      = flag.String("table", "", "Target table (default from POSTGRES_TABLE)")
	dryRun     = flag.Bool("dry-run", false, "Decode and report without touching the database")
	prune      = flag.Bool("prune", true, "Delete rows positioned past the end of the roster")
)

// seedRow is one persona as stored: its source position, id and JSON payload.
type seedRow struct {
	Position int
	ID       string
	Payload  []byte
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var source roster.Source = roster.NewEmbeddedSource()
	if *rosterFile != "" {
		source = roster.NewFileSource(*rosterFile)
	}

	r, err := source.Load(ctx)
	if err != nil {
		return err
	}

	rows, skipped, err := buildRows(r)
	if err != nil {
		return err
	}
	for _, index := range skipped {
		logger.Warn("Skipping undecodable roster record", zap.Int("index", index))
	}
	logger.Info("Roster decoded",
		zap.String("source", source.Name()),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", len(skipped)),
	)

	if *dryRun {
		logger.Info("Dry run, database untouched")
		return nil
	}

	target := *table
	if target == "" {
		target = cfg.Postgres.Table
	}

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return err
	}
	defer postgresSvc.Close()

	if err := upsertRows(ctx, postgresSvc.GetDB(), target, rows, len(r.Records), *prune); err != nil {
		return err
	}

	logger.Info("Personas seeded", zap.String("table", target), zap.Int("rows", len(rows)))
	return nil
}

// buildRows keeps each record at its original position so gaps left by
// broken records survive the round trip through the database.
func buildRows(r *domain.Roster) ([]seedRow, []int, error) {
	rows := make([]seedRow, 0, len(r.Records))
	var skipped []int

	for position, record := range r.Records {
		if record == nil {
			skipped = append(skipped, position)
			continue
		}
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode record %d: %w", position, err)
		}
		rows = append(rows, seedRow{Position: position, ID: record.ID, Payload: payload})
	}
	return rows, skipped, nil
}

func upsertRows(ctx context.Context, db *sql.DB, table string, rows []seedRow, total int, prune bool) error {
	quoted := pq.QuoteIdentifier(table)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(quoted)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL(quoted))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Position, row.ID, string(row.Payload)); err != nil {
			return fmt.Errorf("failed to upsert persona %s: %w", row.ID, err)
		}
	}

	if prune {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE position >= $1", quoted), total); err != nil {
			return fmt.Errorf("failed to prune stale rows: %w", err)
		}
	}

	return tx.Commit()
}

func createTableSQL(quoted string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	position   INTEGER PRIMARY KEY,
	id         TEXT NOT NULL,
	payload    JSONB,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, quoted)
}

func upsertSQL(quoted string) string {
	return fmt.Sprintf(`INSERT INTO %s (position, id, payload, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (position) DO UPDATE
SET id = EXCLUDED.id, payload = EXCLUDED.payload, updated_at = now()`, quoted)
}
