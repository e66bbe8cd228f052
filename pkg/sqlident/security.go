package sqlident

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and
// alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection detects SQL
	// injection patterns in an input.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventIdentifierValidation is logged when identifier validation fails.
	EventIdentifierValidation SecurityEventType = "identifier_validation_failure"
)

// SecurityEvent represents an auditable security event with context for
// SIEM ingestion.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	RunID     uuid.UUID         `json:"run_id"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a security auditor with a dedicated logger
// namespace for easy filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogInjectionAttempt records a detected SQL injection attempt. Logged at
// ERROR level with "critical" severity for immediate alerting.
func (a *SecurityAuditor) LogInjectionAttempt(runID uuid.UUID, result *InjectionCheckResult) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventSQLInjectionAttempt,
		RunID:     runID,
		Details:   result,
		Severity:  "critical",
	}

	// Marshaling known types should never fail.
	eventJSON, _ := json.Marshal(event)

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("run_id", runID.String()),
		zap.String("input_name", result.InputName),
		zap.String("fingerprint", result.Fingerprint),
		zap.String("severity", "critical"),
	)
}

// LogIdentifierValidation records an identifier validation failure. Logged
// at WARN level as these are typically operator typos, not attacks.
func (a *SecurityAuditor) LogIdentifierValidation(runID uuid.UUID, errorMessage string) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventIdentifierValidation,
		RunID:     runID,
		Details:   map[string]string{"error": errorMessage},
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Identifier validation failed",
		zap.String("event_json", string(eventJSON)),
		zap.String("run_id", runID.String()),
		zap.String("error", errorMessage),
		zap.String("severity", "warning"),
	)
}
