package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacustodian/governance-autopilot/pkg/models"
	"github.com/datacustodian/governance-autopilot/pkg/warehouse"
)

func TestEnsureLogTable(t *testing.T) {
	session := warehouse.NewMockSession()
	repo := NewAuditRepository(session, "GOVERNANCE_AUTOPILOT_LOG")

	require.NoError(t, repo.EnsureLogTable(context.Background()))

	require.Len(t, session.ExecutedStatements, 1)
	ddl := session.ExecutedStatements[0]
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "GOVERNANCE_AUTOPILOT_LOG"`)
	assert.Contains(t, ddl, `"EVENT_TIME" TIMESTAMP DEFAULT CURRENT_TIMESTAMP`)
	for _, col := range []string{"OBJECT_TYPE", "OBJECT_NAME", "COLUMN_NAME", "ACTION", "DETAILS"} {
		assert.Contains(t, ddl, `"`+col+`" TEXT`)
	}
}

func TestEnsureLogTable_Idempotent(t *testing.T) {
	session := warehouse.NewMockSession()
	repo := NewAuditRepository(session, "GOVERNANCE_AUTOPILOT_LOG")

	require.NoError(t, repo.EnsureLogTable(context.Background()))
	require.NoError(t, repo.EnsureLogTable(context.Background()))
	assert.Len(t, session.ExecutedStatements, 2) // both runs issue IF NOT EXISTS
}

func TestEnsureLogTable_FailurePropagates(t *testing.T) {
	session := warehouse.NewMockSession()
	session.ExecuteFunc = func(ctx context.Context, sqlStatement string) (*warehouse.ExecResult, error) {
		return nil, errors.New("permission denied")
	}
	repo := NewAuditRepository(session, "GOVERNANCE_AUTOPILOT_LOG")

	err := repo.EnsureLogTable(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestAppend(t *testing.T) {
	session := warehouse.NewMockSession()
	repo := NewAuditRepository(session, "GOVERNANCE_AUTOPILOT_LOG")

	record := models.NewTagAppliedRecord("public.customers", "email", "DATA_SENSITIVITY", models.SensitivityPII)
	require.NoError(t, repo.Append(context.Background(), record))

	require.Len(t, session.ParamStatements, 1)
	stmt := session.ParamStatements[0]
	assert.Contains(t, stmt.SQL, `INSERT INTO "GOVERNANCE_AUTOPILOT_LOG"`)
	assert.Contains(t, stmt.SQL, "VALUES ($1, $2, $3, $4, $5)")
	require.Len(t, stmt.Params, 5)
	assert.Equal(t, "TABLE", stmt.Params[0])
	assert.Equal(t, "public.customers", stmt.Params[1])
	assert.Equal(t, "TAG_APPLIED", stmt.Params[3])
	assert.Equal(t, "DATA_SENSITIVITY=PII", stmt.Params[4])
}

func TestAppend_TableLevelRecordHasNilColumn(t *testing.T) {
	session := warehouse.NewMockSession()
	repo := NewAuditRepository(session, "GOVERNANCE_AUTOPILOT_LOG")

	record := models.NewPolicyAttachedRecord("public.customers", "PII_ROW_POLICY")
	require.NoError(t, repo.Append(context.Background(), record))

	require.Len(t, session.ParamStatements, 1)
	var nilColumn *string
	assert.Equal(t, nilColumn, session.ParamStatements[0].Params[2])
}

func TestRecent(t *testing.T) {
	session := warehouse.NewMockSession()
	col := "email"
	session.QueryFunc = func(ctx context.Context, sqlQuery string, limit int) (*warehouse.QueryResult, error) {
		assert.Contains(t, sqlQuery, `FROM "GOVERNANCE_AUTOPILOT_LOG"`)
		assert.Contains(t, sqlQuery, `'public.customers'`)
		assert.Equal(t, 10, limit)
		return &warehouse.QueryResult{
			Rows: []map[string]any{
				{
					"OBJECT_TYPE": "TABLE",
					"OBJECT_NAME": "public.customers",
					"COLUMN_NAME": col,
					"ACTION":      "TAG_APPLIED",
					"DETAILS":     "DATA_SENSITIVITY=PII",
				},
				{
					"OBJECT_TYPE": "TABLE",
					"OBJECT_NAME": "public.customers",
					"COLUMN_NAME": nil,
					"ACTION":      "POLICY_ATTACHED",
					"DETAILS":     "PII_ROW_POLICY",
				},
			},
			RowCount: 2,
		}, nil
	}
	repo := NewAuditRepository(session, "GOVERNANCE_AUTOPILOT_LOG")

	records, err := repo.Recent(context.Background(), "public.customers", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].ColumnName)
	assert.Equal(t, "email", *records[0].ColumnName)
	assert.Nil(t, records[1].ColumnName)
	assert.Equal(t, "POLICY_ATTACHED", records[1].Action)
}

func TestRecent_EscapesObjectName(t *testing.T) {
	session := warehouse.NewMockSession()
	var captured string
	session.QueryFunc = func(ctx context.Context, sqlQuery string, limit int) (*warehouse.QueryResult, error) {
		captured = sqlQuery
		return &warehouse.QueryResult{}, nil
	}
	repo := NewAuditRepository(session, "GOVERNANCE_AUTOPILOT_LOG")

	_, err := repo.Recent(context.Background(), "public.o'brien", 5)
	require.NoError(t, err)
	assert.Contains(t, captured, "public.o''brien")
}
