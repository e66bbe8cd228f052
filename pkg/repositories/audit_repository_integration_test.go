package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacustodian/governance-autopilot/pkg/models"
	"github.com/datacustodian/governance-autopilot/pkg/repositories"
	"github.com/datacustodian/governance-autopilot/pkg/testhelpers"
	"github.com/datacustodian/governance-autopilot/pkg/warehouse"
)

func TestAuditRepository_RoundTrip(t *testing.T) {
	wh := testhelpers.GetTestWarehouse(t)
	ctx := context.Background()

	wh.MustExec(t, `DROP TABLE IF EXISTS "AUDIT_ROUNDTRIP_LOG"`)

	session := warehouse.NewPostgresSession(wh.Pool)
	repo := repositories.NewAuditRepository(session, "AUDIT_ROUNDTRIP_LOG")

	require.NoError(t, repo.EnsureLogTable(ctx))
	// Second call is a no-op thanks to IF NOT EXISTS.
	require.NoError(t, repo.EnsureLogTable(ctx))

	records := []*models.AuditRecord{
		models.NewTagAppliedRecord("sales.customers", "email", "DATA_SENSITIVITY", models.SensitivityPII),
		models.NewTagAppliedRecord("sales.customers", "id", "DATA_SENSITIVITY", models.SensitivityPublic),
		models.NewPolicyAttachedRecord("sales.customers", "PII_ROW_POLICY"),
		models.NewTagAppliedRecord("sales.orders", "total", "DATA_SENSITIVITY", models.SensitivityInternal),
	}
	for _, record := range records {
		require.NoError(t, repo.Append(ctx, record))
	}

	// Only sales.customers records come back; the sales.orders one is filtered.
	got, err := repo.Recent(ctx, "sales.customers", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	byAction := map[string]*models.AuditRecord{}
	for _, record := range got {
		assert.Equal(t, "TABLE", record.ObjectType)
		assert.Equal(t, "sales.customers", record.ObjectName)
		// EVENT_TIME is filled by the table default.
		assert.WithinDuration(t, time.Now(), record.EventTime, time.Minute)
		byAction[record.Action+"/"+record.Details] = record
	}

	attached := byAction[models.AuditActionPolicyAttached+"/PII_ROW_POLICY"]
	require.NotNil(t, attached)
	assert.Nil(t, attached.ColumnName)

	tagged := byAction[models.AuditActionTagApplied+"/DATA_SENSITIVITY=PII"]
	require.NotNil(t, tagged)
	require.NotNil(t, tagged.ColumnName)
	assert.Equal(t, "email", *tagged.ColumnName)
}

func TestAuditRepository_RecentHonorsLimit(t *testing.T) {
	wh := testhelpers.GetTestWarehouse(t)
	ctx := context.Background()

	wh.MustExec(t, `DROP TABLE IF EXISTS "AUDIT_LIMIT_LOG"`)

	session := warehouse.NewPostgresSession(wh.Pool)
	repo := repositories.NewAuditRepository(session, "AUDIT_LIMIT_LOG")
	require.NoError(t, repo.EnsureLogTable(ctx))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx,
			models.NewTagAppliedRecord("hr.people", "name", "DATA_SENSITIVITY", models.SensitivityPII)))
	}

	got, err := repo.Recent(ctx, "hr.people", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
