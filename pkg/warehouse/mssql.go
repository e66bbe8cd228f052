package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MSSQLSession provides a warehouse session backed by SQL Server.
type MSSQLSession struct {
	db *sql.DB
}

// NewMSSQLSession creates a session from an existing database handle. The
// session takes ownership and closes the handle on Close.
func NewMSSQLSession(db *sql.DB) *MSSQLSession {
	return &MSSQLSession{db: db}
}

// Query runs a SELECT statement and returns bounded results using SQL
// Server's TOP clause.
func (s *MSSQLSession) Query(ctx context.Context, sqlQuery string, limit int) (*QueryResult, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	queryToRun := fmt.Sprintf("SELECT TOP (%d) * FROM (%s) AS _limited", limit, sqlQuery)

	rows, err := s.db.QueryContext(ctx, queryToRun)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return collectSQLRows(rows)
}

// Execute runs any SQL statement (DDL/DML) without modification.
func (s *MSSQLSession) Execute(ctx context.Context, sqlStatement string) (*ExecResult, error) {
	result, err := s.db.ExecContext(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		affected = 0 // Not all statements report affected rows
	}
	return &ExecResult{RowsAffected: affected}, nil
}

// ExecuteWithParams runs a parameterized DML statement. PostgreSQL-style
// $n placeholders are converted to SQL Server's @pn named parameters.
func (s *MSSQLSession) ExecuteWithParams(ctx context.Context, sqlStatement string, params []any) (*ExecResult, error) {
	converted := convertPositionalParams(sqlStatement)

	namedParams := make([]any, len(params))
	for i, p := range params {
		namedParams[i] = sql.Named(fmt.Sprintf("p%d", i+1), p)
	}

	result, err := s.db.ExecContext(ctx, converted, namedParams...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute parameterized statement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		affected = 0
	}
	return &ExecResult{RowsAffected: affected}, nil
}

// SampleTable returns at most n rows from schema.table, all columns, in the
// table's natural column order.
func (s *MSSQLSession) SampleTable(ctx context.Context, schema, table string, n int) (*QueryResult, error) {
	query := fmt.Sprintf("SELECT TOP (%d) * FROM %s.%s",
		n, s.QuoteIdentifier(schema), s.QuoteIdentifier(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sample table: %w", err)
	}
	defer rows.Close()

	return collectSQLRows(rows)
}

// QuoteIdentifier safely quotes a SQL identifier using SQL Server's square
// bracket syntax, escaping ] as ]].
func (s *MSSQLSession) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "]", "]]")
	return fmt.Sprintf("[%s]", escaped)
}

// Close releases the database handle.
func (s *MSSQLSession) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var positionalParamPattern = regexp.MustCompile(`\$(\d+)`)

// convertPositionalParams converts PostgreSQL-style positional parameters
// ($1, $2, ...) to SQL Server named parameters (@p1, @p2, ...).
func convertPositionalParams(query string) string {
	return positionalParamPattern.ReplaceAllStringFunc(query, func(match string) string {
		num, err := strconv.Atoi(match[1:])
		if err != nil {
			return match
		}
		return fmt.Sprintf("@p%d", num)
	})
}

func collectSQLRows(rows *sql.Rows) (*QueryResult, error) {
	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	columns := make([]ColumnInfo, len(columnNames))
	for i, name := range columnNames {
		columns[i] = ColumnInfo{
			Name: name,
			Type: strings.ToUpper(columnTypes[i].DatabaseTypeName()),
		}
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columnNames))
		scanTargets := make([]any, len(columnNames))
		for i := range values {
			scanTargets[i] = &values[i]
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowMap := make(map[string]any)
		for i, col := range columns {
			// database/sql returns []byte for many text types
			if b, ok := values[i].([]byte); ok {
				rowMap[col.Name] = string(b)
			} else {
				rowMap[col.Name] = values[i]
			}
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

// Ensure MSSQLSession implements Session at compile time.
var _ Session = (*MSSQLSession)(nil)
