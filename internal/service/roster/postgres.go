package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kapu/polyglot-connect-go/internal/constants"
	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/service/database"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/kapu/polyglot-connect-go/pkg/errors"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresSource reads one JSONB payload per persona, ordered by position.
// The table is expected to look like:
//
//	CREATE TABLE personas (
//	    position INTEGER PRIMARY KEY,
//	    id       TEXT NOT NULL,
//	    payload  JSONB
//	);
type PostgresSource struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

func NewPostgresSource(postgres *database.PostgresService, table string, logger *zap.Logger) *PostgresSource {
	if table == "" {
		table = constants.PostgresConfig.PersonaTable
	}
	return &PostgresSource{
		db:     postgres.GetDB(),
		table:  table,
		logger: util.OrNop(logger),
	}
}

func (s *PostgresSource) Name() string { return "postgres:" + s.table }

func (s *PostgresSource) Load(ctx context.Context) (*domain.Roster, error) {
	rows, err := s.db.QueryContext(ctx, selectPayloadsQuery(s.table))
	if err != nil {
		return nil, errors.NewRosterError("failed to query personas", s.Name(), err)
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.NewRosterError("failed to scan persona row", s.Name(), err)
		}
		payloads = append(payloads, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewRosterError("failed to iterate persona rows", s.Name(), err)
	}

	s.logger.Info("Loaded persona rows from PostgreSQL",
		zap.String("table", s.table),
		zap.Int("rows", len(payloads)),
	)

	return rosterFromPayloads(payloads), nil
}

func selectPayloadsQuery(table string) string {
	return fmt.Sprintf("SELECT payload FROM %s ORDER BY position", pq.QuoteIdentifier(table))
}

// rosterFromPayloads treats a NULL payload like a null list element.
func rosterFromPayloads(payloads [][]byte) *domain.Roster {
	raw := make([]json.RawMessage, len(payloads))
	for i, p := range payloads {
		raw[i] = p
	}
	records, decodeErrs, dropped := domain.DecodeRecords(raw)
	return &domain.Roster{
		Records:       records,
		DecodeErrors:  decodeErrs,
		DroppedFields: dropped,
	}
}
