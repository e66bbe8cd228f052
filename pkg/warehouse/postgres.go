package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSession provides a warehouse session backed by PostgreSQL.
type PostgresSession struct {
	pool *pgxpool.Pool
}

// NewPostgresSession creates a session from an existing pool. The session
// takes ownership and closes the pool on Close.
func NewPostgresSession(pool *pgxpool.Pool) *PostgresSession {
	return &PostgresSession{pool: pool}
}

// Query runs a SELECT statement and returns bounded results.
func (s *PostgresSession) Query(ctx context.Context, sqlQuery string, limit int) (*QueryResult, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	queryToRun := fmt.Sprintf("SELECT * FROM (%s) AS _limited LIMIT %d", sqlQuery, limit)

	rows, err := s.pool.Query(ctx, queryToRun)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return collectPgRows(rows)
}

// Execute runs any SQL statement (DDL/DML) without modification.
func (s *PostgresSession) Execute(ctx context.Context, sqlStatement string) (*ExecResult, error) {
	tag, err := s.pool.Exec(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}
	return &ExecResult{RowsAffected: tag.RowsAffected()}, nil
}

// ExecuteWithParams runs a parameterized DML statement. pgx handles $n
// placeholders natively, preventing SQL injection.
func (s *PostgresSession) ExecuteWithParams(ctx context.Context, sqlStatement string, params []any) (*ExecResult, error) {
	tag, err := s.pool.Exec(ctx, sqlStatement, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute parameterized statement: %w", err)
	}
	return &ExecResult{RowsAffected: tag.RowsAffected()}, nil
}

// SampleTable returns at most n rows from schema.table, all columns, in the
// table's natural column order.
func (s *PostgresSession) SampleTable(ctx context.Context, schema, table string, n int) (*QueryResult, error) {
	query := fmt.Sprintf("SELECT * FROM %s.%s LIMIT %d",
		s.QuoteIdentifier(schema), s.QuoteIdentifier(table), n)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sample table: %w", err)
	}
	defer rows.Close()

	return collectPgRows(rows)
}

// QuoteIdentifier safely quotes a SQL identifier using PostgreSQL's
// standard double-quote quoting.
func (s *PostgresSession) QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Close releases the connection pool.
func (s *PostgresSession) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func collectPgRows(rows pgx.Rows) (*QueryResult, error) {
	fieldDescs := rows.FieldDescriptions()
	columns := make([]ColumnInfo, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = ColumnInfo{
			Name: string(fd.Name),
			Type: pgTypeNameFromOID(fd.DataTypeOID),
		}
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any)
		for i, col := range columns {
			rowMap[col.Name] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// pgTypeNameFromOID maps PostgreSQL type OIDs to human-readable type names.
// Covers the common types; unknown types return "UNKNOWN".
func pgTypeNameFromOID(oid uint32) string {
	switch oid {
	case 16:
		return "BOOL"
	case 17:
		return "BYTEA"
	case 20:
		return "INT8"
	case 21:
		return "INT2"
	case 23:
		return "INT4"
	case 25:
		return "TEXT"
	case 114:
		return "JSON"
	case 700:
		return "FLOAT4"
	case 701:
		return "FLOAT8"
	case 1042:
		return "BPCHAR"
	case 1043:
		return "VARCHAR"
	case 1082:
		return "DATE"
	case 1083:
		return "TIME"
	case 1114:
		return "TIMESTAMP"
	case 1184:
		return "TIMESTAMPTZ"
	case 1700:
		return "NUMERIC"
	case 2950:
		return "UUID"
	case 3802:
		return "JSONB"
	default:
		return "UNKNOWN"
	}
}

// Ensure PostgresSession implements Session at compile time.
var _ Session = (*PostgresSession)(nil)
