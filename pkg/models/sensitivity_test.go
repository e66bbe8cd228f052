package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSensitivityLabel(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		expected   SensitivityLabel
		recognized bool
	}{
		{name: "exact PII", raw: "PII", expected: SensitivityPII, recognized: true},
		{name: "exact CONFIDENTIAL", raw: "CONFIDENTIAL", expected: SensitivityConfidential, recognized: true},
		{name: "exact INTERNAL", raw: "INTERNAL", expected: SensitivityInternal, recognized: true},
		{name: "exact PUBLIC", raw: "PUBLIC", expected: SensitivityPublic, recognized: true},
		{name: "lowercase", raw: "pii", expected: SensitivityPII, recognized: true},
		{name: "mixed case", raw: "Confidential", expected: SensitivityConfidential, recognized: true},
		{name: "surrounding whitespace", raw: "  PUBLIC\n", expected: SensitivityPublic, recognized: true},
		{name: "whitespace and casing", raw: "\tinternal ", expected: SensitivityInternal, recognized: true},
		{name: "empty string", raw: "", expected: SensitivityInternal, recognized: false},
		{name: "unknown label", raw: "UNKNOWN", expected: SensitivityInternal, recognized: false},
		{name: "chatty response", raw: "Maybe PII", expected: SensitivityInternal, recognized: false},
		{name: "label with trailing prose", raw: "PII - this column contains emails", expected: SensitivityInternal, recognized: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, recognized := ParseSensitivityLabel(tt.raw)
			assert.Equal(t, tt.expected, label)
			assert.Equal(t, tt.recognized, recognized)
		})
	}
}

func TestParseSensitivityLabel_NeverFallsBackToPublicOrPII(t *testing.T) {
	// Garbage input must land on the moderate default, never on the
	// permissive or the most restrictive end of the scale.
	for _, raw := range []string{"", "???", "public internal", "P11", "pii/confidential"} {
		label, recognized := ParseSensitivityLabel(raw)
		assert.False(t, recognized, "input %q should not be recognized", raw)
		assert.Equal(t, SensitivityInternal, label)
	}
}

func TestAuditRecordConstructors(t *testing.T) {
	t.Run("tag applied", func(t *testing.T) {
		rec := NewTagAppliedRecord("public.customers", "email", "DATA_SENSITIVITY", SensitivityPII)
		assert.Equal(t, AuditObjectTypeTable, rec.ObjectType)
		assert.Equal(t, "public.customers", rec.ObjectName)
		if assert.NotNil(t, rec.ColumnName) {
			assert.Equal(t, "email", *rec.ColumnName)
		}
		assert.Equal(t, AuditActionTagApplied, rec.Action)
		assert.Equal(t, "DATA_SENSITIVITY=PII", rec.Details)
	})

	t.Run("policy attached has no column", func(t *testing.T) {
		rec := NewPolicyAttachedRecord("public.customers", "PII_ROW_POLICY")
		assert.Nil(t, rec.ColumnName)
		assert.Equal(t, AuditActionPolicyAttached, rec.Action)
		assert.Equal(t, "PII_ROW_POLICY", rec.Details)
	})

	t.Run("policy skipped carries cause", func(t *testing.T) {
		rec := NewPolicySkippedRecord("public.customers", "row access policy already present")
		assert.Nil(t, rec.ColumnName)
		assert.Equal(t, AuditActionPolicySkipped, rec.Action)
		assert.Equal(t, "row access policy already present", rec.Details)
	})
}
