package warehouse

import (
	"context"
)

// MockSession is a configurable mock warehouse session for testing.
// Set the function fields to control behavior; executed statements are
// recorded for verification.
type MockSession struct {
	QueryFunc             func(ctx context.Context, sqlQuery string, limit int) (*QueryResult, error)
	ExecuteFunc           func(ctx context.Context, sqlStatement string) (*ExecResult, error)
	ExecuteWithParamsFunc func(ctx context.Context, sqlStatement string, params []any) (*ExecResult, error)
	SampleTableFunc       func(ctx context.Context, schema, table string, n int) (*QueryResult, error)

	// Recorded calls
	ExecutedStatements []string
	ParamStatements    []ParamStatement
	SampleCalls        []SampleCall

	Closed bool
}

// ParamStatement records one ExecuteWithParams call.
type ParamStatement struct {
	SQL    string
	Params []any
}

// SampleCall records one SampleTable call.
type SampleCall struct {
	Schema string
	Table  string
	N      int
}

// NewMockSession creates a mock session with no-op defaults.
func NewMockSession() *MockSession {
	return &MockSession{}
}

// Query implements Session.
func (m *MockSession) Query(ctx context.Context, sqlQuery string, limit int) (*QueryResult, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sqlQuery, limit)
	}
	return &QueryResult{}, nil
}

// Execute implements Session.
func (m *MockSession) Execute(ctx context.Context, sqlStatement string) (*ExecResult, error) {
	m.ExecutedStatements = append(m.ExecutedStatements, sqlStatement)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, sqlStatement)
	}
	return &ExecResult{}, nil
}

// ExecuteWithParams implements Session.
func (m *MockSession) ExecuteWithParams(ctx context.Context, sqlStatement string, params []any) (*ExecResult, error) {
	m.ParamStatements = append(m.ParamStatements, ParamStatement{SQL: sqlStatement, Params: params})
	if m.ExecuteWithParamsFunc != nil {
		return m.ExecuteWithParamsFunc(ctx, sqlStatement, params)
	}
	return &ExecResult{RowsAffected: 1}, nil
}

// SampleTable implements Session.
func (m *MockSession) SampleTable(ctx context.Context, schema, table string, n int) (*QueryResult, error) {
	m.SampleCalls = append(m.SampleCalls, SampleCall{Schema: schema, Table: table, N: n})
	if m.SampleTableFunc != nil {
		return m.SampleTableFunc(ctx, schema, table, n)
	}
	return &QueryResult{}, nil
}

// QuoteIdentifier implements Session using PostgreSQL-style quoting.
func (m *MockSession) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

// Close implements Session.
func (m *MockSession) Close() error {
	m.Closed = true
	return nil
}

// Ensure MockSession implements Session at compile time.
var _ Session = (*MockSession)(nil)
