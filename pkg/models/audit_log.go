package models

import "time"

// Audit actions recorded in the governance log.
const (
	AuditActionTagApplied     = "TAG_APPLIED"
	AuditActionPolicyAttached = "POLICY_ATTACHED"
	AuditActionPolicySkipped  = "POLICY_SKIPPED"
)

// AuditObjectTypeTable is the object type for table-level governance actions.
const AuditObjectTypeTable = "TABLE"

// AuditRecord is one row in the governance audit log. The log is
// append-only: records are inserted and never updated or deleted.
// EventTime is assigned by the warehouse (column default) on insert; it is
// only populated when reading records back.
type AuditRecord struct {
	EventTime  time.Time
	ObjectType string
	ObjectName string
	ColumnName *string // nil for table-level actions (policy attach/skip)
	Action     string
	Details    string
}

// NewTagAppliedRecord builds the audit record for a column tag application.
func NewTagAppliedRecord(objectName, columnName, tagName string, label SensitivityLabel) *AuditRecord {
	col := columnName
	return &AuditRecord{
		ObjectType: AuditObjectTypeTable,
		ObjectName: objectName,
		ColumnName: &col,
		Action:     AuditActionTagApplied,
		Details:    tagName + "=" + label.String(),
	}
}

// NewPolicyAttachedRecord builds the audit record for a successful row
// access policy attachment.
func NewPolicyAttachedRecord(objectName, policyName string) *AuditRecord {
	return &AuditRecord{
		ObjectType: AuditObjectTypeTable,
		ObjectName: objectName,
		Action:     AuditActionPolicyAttached,
		Details:    policyName,
	}
}

// NewPolicySkippedRecord builds the audit record for a recovered policy
// attach failure. The details string names the likely cause so that
// genuine failures (bad policy name, missing grants) are not silently
// conflated with the already-attached case.
func NewPolicySkippedRecord(objectName, cause string) *AuditRecord {
	return &AuditRecord{
		ObjectType: AuditObjectTypeTable,
		ObjectName: objectName,
		Action:     AuditActionPolicySkipped,
		Details:    cause,
	}
}
