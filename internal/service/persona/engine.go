package persona

import (
	"fmt"
	"strings"

	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/kapu/polyglot-connect-go/pkg/errors"
	"go.uber.org/zap"
)

// Skip records one raw record that did not make it into the catalog.
type Skip struct {
	Index int
	ID    string
	Err   error
}

// Report summarizes one normalization pass.
type Report struct {
	Total       int
	Emitted     int
	Skipped     []Skip
	RosterValid bool
}

// FieldResolver resolves one record. *Resolver is the production implementation.
type FieldResolver interface {
	Resolve(p *domain.RawPersona) (*domain.Connector, error)
}

// Engine turns a raw roster into Connectors, isolating failures per record.
type Engine struct {
	resolver FieldResolver
	logger   *zap.Logger
}

func NewEngine(resolver FieldResolver, logger *zap.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		logger:   util.OrNop(logger),
	}
}

// Normalize resolves every valid record in source order. It never panics or
// returns an error: bad records are logged and skipped, and an empty or nil
// roster yields an empty catalog with RosterValid=false.
func (e *Engine) Normalize(records []*domain.RawPersona) ([]*domain.Connector, Report) {
	report := Report{Total: len(records)}

	if len(records) == 0 {
		e.logger.Error("Roster is empty or missing, nothing to normalize",
			zap.Error(errors.NewRosterError("roster has no records", "engine", nil)),
		)
		return []*domain.Connector{}, report
	}
	report.RosterValid = true

	connectors := make([]*domain.Connector, 0, len(records))
	seen := make(map[string]int, len(records))

	for index, record := range records {
		record = trimID(record)
		if err := validateRecord(index, record); err != nil {
			e.skip(&report, index, recordID(record), err)
			continue
		}
		if first, dup := seen[record.ID]; dup {
			err := errors.NewRecordError(fmt.Sprintf("duplicate persona id (first at index %d)", first), index, record.ID, "id")
			e.skip(&report, index, record.ID, err)
			continue
		}

		if !hasCodes(record) {
			e.logger.Warn("Persona has no language metadata for its primary language, using fallbacks",
				zap.Int("index", index),
				zap.String("id", record.ID),
				zap.String("language", record.Language),
			)
		}

		connector, err := e.resolveIsolated(index, record)
		if err != nil {
			e.skip(&report, index, record.ID, err)
			continue
		}

		seen[record.ID] = index
		connectors = append(connectors, connector)
	}

	report.Emitted = len(connectors)
	e.logger.Info("Roster normalized",
		zap.Int("total", report.Total),
		zap.Int("emitted", report.Emitted),
		zap.Int("skipped", len(report.Skipped)),
	)

	return connectors, report
}

// resolveIsolated runs the resolver behind a recover boundary so a panic in one
// record costs only that record.
func (e *Engine) resolveIsolated(index int, record *domain.RawPersona) (connector *domain.Connector, err error) {
	defer func() {
		if r := recover(); r != nil {
			connector = nil
			err = errors.NewDerivationError("panic while resolving persona", index, record.ID, fmt.Errorf("%v", r))
		}
	}()

	connector, err = e.resolver.Resolve(record)
	if err != nil {
		return nil, errors.NewDerivationError("failed to resolve persona", index, record.ID, err)
	}
	if connector == nil {
		return nil, errors.NewDerivationError("resolver returned no connector", index, record.ID, nil)
	}
	return connector, nil
}

func (e *Engine) skip(report *Report, index int, id string, err error) {
	report.Skipped = append(report.Skipped, Skip{Index: index, ID: id, Err: err})

	fields := []zap.Field{
		zap.Int("index", index),
		zap.String("id", id),
		zap.Error(err),
	}
	if _, ok := err.(*errors.DerivationError); ok {
		e.logger.Error("Failed to process persona, skipping", fields...)
		return
	}
	e.logger.Warn("Invalid or incomplete persona, skipping", fields...)
}

func validateRecord(index int, record *domain.RawPersona) error {
	if record == nil {
		return errors.NewRecordError("persona record is missing or undecodable", index, "", "")
	}
	if record.ID == "" {
		return errors.NewRecordError("persona id is missing", index, "", "id")
	}
	if strings.TrimSpace(record.Language) == "" {
		return errors.NewRecordError("persona language is missing", index, record.ID, "language")
	}
	return nil
}

// trimID returns record with surrounding space removed from its id, copying
// only when the id changes so the caller's roster is left untouched.
func trimID(record *domain.RawPersona) *domain.RawPersona {
	if record == nil {
		return nil
	}
	id := strings.TrimSpace(record.ID)
	if id == record.ID {
		return record
	}
	trimmed := *record
	trimmed.ID = id
	return &trimmed
}

func hasCodes(record *domain.RawPersona) bool {
	_, ok := record.CodesFor(record.Language)
	return ok
}

func recordID(record *domain.RawPersona) string {
	if record == nil {
		return ""
	}
	return record.ID
}
