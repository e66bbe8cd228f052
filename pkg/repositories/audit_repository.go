// Package repositories provides data access for the governance audit log.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/datacustodian/governance-autopilot/pkg/models"
	"github.com/datacustodian/governance-autopilot/pkg/warehouse"
)

// AuditRepository provides append-only access to the governance audit log
// table in the warehouse. There is deliberately no update or delete path.
type AuditRepository interface {
	// EnsureLogTable creates the audit log table if it does not exist.
	// Idempotent; safe to call at the start of every run.
	EnsureLogTable(ctx context.Context) error

	// Append inserts one audit record. EVENT_TIME is assigned by the
	// warehouse column default.
	Append(ctx context.Context, record *models.AuditRecord) error

	// Recent returns the latest audit records for an object, newest first.
	Recent(ctx context.Context, objectName string, limit int) ([]*models.AuditRecord, error)
}

type auditRepository struct {
	session  warehouse.Session
	logTable string
}

// NewAuditRepository creates an AuditRepository writing to the named log
// table through the given session.
func NewAuditRepository(session warehouse.Session, logTable string) AuditRepository {
	return &auditRepository{
		session:  session,
		logTable: logTable,
	}
}

var _ AuditRepository = (*auditRepository)(nil)

// Identifiers are quoted everywhere so the table and columns keep their
// exact case across dialects.
func (r *auditRepository) q(name string) string {
	return r.session.QuoteIdentifier(name)
}

func (r *auditRepository) EnsureLogTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		%s TEXT,
		%s TEXT,
		%s TEXT,
		%s TEXT,
		%s TEXT
	)`,
		r.q(r.logTable),
		r.q("EVENT_TIME"),
		r.q("OBJECT_TYPE"),
		r.q("OBJECT_NAME"),
		r.q("COLUMN_NAME"),
		r.q("ACTION"),
		r.q("DETAILS"),
	)

	if _, err := r.session.Execute(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure audit log table: %w", err)
	}
	return nil
}

func (r *auditRepository) Append(ctx context.Context, record *models.AuditRecord) error {
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		r.q(r.logTable),
		r.q("OBJECT_TYPE"),
		r.q("OBJECT_NAME"),
		r.q("COLUMN_NAME"),
		r.q("ACTION"),
		r.q("DETAILS"),
	)

	params := []any{
		record.ObjectType,
		record.ObjectName,
		record.ColumnName, // nil inserts NULL for table-level actions
		record.Action,
		record.Details,
	}

	if _, err := r.session.ExecuteWithParams(ctx, insert, params); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

func (r *auditRepository) Recent(ctx context.Context, objectName string, limit int) ([]*models.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	// The object name is a value, not an identifier, but Query has no
	// parameter support in the bounded path; validate-and-quote instead of
	// interpolating raw input.
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = '%s' ORDER BY %s DESC`,
		r.q("EVENT_TIME"),
		r.q("OBJECT_TYPE"),
		r.q("OBJECT_NAME"),
		r.q("COLUMN_NAME"),
		r.q("ACTION"),
		r.q("DETAILS"),
		r.q(r.logTable),
		r.q("OBJECT_NAME"),
		escapeStringLiteral(objectName),
		r.q("EVENT_TIME"),
	)

	result, err := r.session.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}

	records := make([]*models.AuditRecord, 0, len(result.Rows))
	for _, row := range result.Rows {
		records = append(records, scanAuditRecord(row))
	}
	return records, nil
}

// escapeStringLiteral doubles single quotes for safe embedding in a SQL
// string literal.
func escapeStringLiteral(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' {
			out = append(out, '\'')
		}
		out = append(out, r)
	}
	return string(out)
}

func scanAuditRecord(row map[string]any) *models.AuditRecord {
	record := &models.AuditRecord{
		ObjectType: stringField(row, "OBJECT_TYPE"),
		ObjectName: stringField(row, "OBJECT_NAME"),
		Action:     stringField(row, "ACTION"),
		Details:    stringField(row, "DETAILS"),
	}

	if v, ok := row["COLUMN_NAME"]; ok && v != nil {
		if s, ok := v.(string); ok {
			record.ColumnName = &s
		}
	}

	if v, ok := row["EVENT_TIME"]; ok {
		if t, ok := v.(time.Time); ok {
			record.EventTime = t
		}
	}

	return record
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}
