package models

import "strings"

// SensitivityLabel classifies how sensitive a column's contents are.
// Labels map directly to the DATA_SENSITIVITY tag values applied in the
// warehouse.
type SensitivityLabel string

const (
	SensitivityPII          SensitivityLabel = "PII"
	SensitivityConfidential SensitivityLabel = "CONFIDENTIAL"
	SensitivityInternal     SensitivityLabel = "INTERNAL"
	SensitivityPublic       SensitivityLabel = "PUBLIC"
)

// AllSensitivityLabels lists the valid labels in severity order.
var AllSensitivityLabels = []SensitivityLabel{
	SensitivityPII,
	SensitivityConfidential,
	SensitivityInternal,
	SensitivityPublic,
}

// ParseSensitivityLabel normalizes a raw model response into a label.
// The response is trimmed and upper-cased before matching. Anything outside
// the known set falls back to INTERNAL so that unrecognized output never
// lands on PUBLIC or PII. The second return value reports whether the raw
// response was recognized.
func ParseSensitivityLabel(raw string) (SensitivityLabel, bool) {
	normalized := SensitivityLabel(strings.ToUpper(strings.TrimSpace(raw)))
	for _, label := range AllSensitivityLabels {
		if normalized == label {
			return label, true
		}
	}
	return SensitivityInternal, false
}

// String implements fmt.Stringer.
func (l SensitivityLabel) String() string {
	return string(l)
}
