// Package warehouse provides access to the governed data warehouse.
// A Session is the explicit handle every workflow operation runs against;
// there is no ambient/global session lookup.
package warehouse

import "context"

// Session is the warehouse session contract: run bounded queries, execute
// DDL/DML, sample tables, and quote identifiers for the dialect.
// Each implementation owns its connection and must be closed when done.
type Session interface {
	// Query runs a SELECT statement and returns bounded results. The query
	// is always wrapped with a dialect-specific limit clause.
	Query(ctx context.Context, sqlQuery string, limit int) (*QueryResult, error)

	// Execute runs any SQL statement (DDL/DML) without modification.
	Execute(ctx context.Context, sqlStatement string) (*ExecResult, error)

	// ExecuteWithParams runs a parameterized DML statement. The SQL uses
	// $1, $2, ... placeholders; dialects that need other syntax convert.
	ExecuteWithParams(ctx context.Context, sqlStatement string, params []any) (*ExecResult, error)

	// SampleTable returns at most n rows from schema.table with all columns
	// in the table's natural column order.
	SampleTable(ctx context.Context, schema, table string, n int) (*QueryResult, error)

	// QuoteIdentifier safely quotes a SQL identifier (table, column, schema
	// name) using dialect-specific quoting.
	QuoteIdentifier(name string) string

	// Close releases the connection.
	Close() error
}

// MaxQueryLimit is the hard cap on rows returned by Query.
const MaxQueryLimit = 1000

// ColumnInfo describes a result column with its database type name.
type ColumnInfo struct {
	Name string
	Type string
}

// QueryResult holds the results of a query. Columns preserves the result
// set's column order; Rows index cell values by column name.
type QueryResult struct {
	Columns  []ColumnInfo
	Rows     []map[string]any
	RowCount int
}

// ExecResult holds the results from executing a DDL/DML statement.
type ExecResult struct {
	RowsAffected int64
}
