// Package services orchestrates the classify-and-protect workflow.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datacustodian/governance-autopilot/pkg/apperrors"
	"github.com/datacustodian/governance-autopilot/pkg/classifier"
	"github.com/datacustodian/governance-autopilot/pkg/logging"
	"github.com/datacustodian/governance-autopilot/pkg/models"
	"github.com/datacustodian/governance-autopilot/pkg/repositories"
	"github.com/datacustodian/governance-autopilot/pkg/sqlident"
	"github.com/datacustodian/governance-autopilot/pkg/warehouse"
)

// ProtectConfig holds the governance object names and sampling bounds.
type ProtectConfig struct {
	// TagName is the column tag definition, assumed to pre-exist.
	TagName string
	// PolicyName is the row access policy, assumed to pre-exist.
	PolicyName string
	// SampleRows bounds how many rows are sampled per table.
	SampleRows int
}

// DefaultProtectConfig mirrors the governance objects the warehouse admin
// is expected to have provisioned.
func DefaultProtectConfig() ProtectConfig {
	return ProtectConfig{
		TagName:    "DATA_SENSITIVITY",
		PolicyName: "PII_ROW_POLICY",
		SampleRows: 10,
	}
}

// ProtectService runs the full governance workflow on one table: sample,
// classify each column, tag, optionally attach the PII row policy, and
// append every action to the audit log.
//
// Execution is fully sequential. Everything is fatal-by-default; the only
// recovered failure is the policy-attach step.
type ProtectService struct {
	session    warehouse.Session
	classifier *classifier.Classifier
	audit      repositories.AuditRepository
	security   *sqlident.SecurityAuditor
	cfg        ProtectConfig
	logger     *zap.Logger
}

// NewProtectService creates a ProtectService. All collaborators are
// explicit dependencies; there is no ambient session lookup.
func NewProtectService(
	session warehouse.Session,
	cls *classifier.Classifier,
	audit repositories.AuditRepository,
	security *sqlident.SecurityAuditor,
	cfg ProtectConfig,
	logger *zap.Logger,
) *ProtectService {
	return &ProtectService{
		session:    session,
		classifier: cls,
		audit:      audit,
		security:   security,
		cfg:        cfg,
		logger:     logger.Named("protect"),
	}
}

// Protect runs the workflow against a fully qualified "schema.table" name.
//
// Per run: START -> SAMPLING -> (CLASSIFYING -> TAGGING -> LOGGING)* ->
// [POLICY_CHECK -> (ATTACH | SKIP) -> LOGGING] -> DONE. Any error in
// sampling, classification, or tagging terminates the run before the
// policy check; a policy-attach error is recovered and logged as skipped.
func (s *ProtectService) Protect(ctx context.Context, fullTableName string) error {
	runID := uuid.New()
	logger := s.logger.With(zap.String("run_id", runID.String()))

	if result := sqlident.CheckInputForInjection("table", fullTableName); result != nil {
		s.security.LogInjectionAttempt(runID, result)
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidTableName, fullTableName)
	}

	table, err := sqlident.ParseQualifiedTable(fullTableName)
	if err != nil {
		s.security.LogIdentifierValidation(runID, err.Error())
		return err
	}

	logger.Info("Starting governance run", zap.String("table", table.String()))

	if err := s.audit.EnsureLogTable(ctx); err != nil {
		return err
	}

	sample, err := s.session.SampleTable(ctx, table.Schema, table.Table, s.cfg.SampleRows)
	if err != nil {
		return fmt.Errorf("sample table %s: %w", table, err)
	}

	logger.Info("Sampled table",
		zap.Int("rows", sample.RowCount),
		zap.Int("columns", len(sample.Columns)))

	hasPII := false

	for _, col := range sample.Columns {
		values := columnValues(sample, col.Name)

		result, err := s.classifier.Classify(ctx, col.Name, values)
		if err != nil {
			return err
		}

		logger.Info("Column classified",
			zap.String("column", col.Name),
			zap.String("label", result.Label.String()),
			zap.Bool("recognized", result.Recognized))

		if err := s.applyTag(ctx, table, col.Name, result.Label); err != nil {
			return err
		}

		if err := s.audit.Append(ctx, models.NewTagAppliedRecord(table.String(), col.Name, s.cfg.TagName, result.Label)); err != nil {
			return err
		}

		if result.Label == models.SensitivityPII {
			hasPII = true
		}
	}

	if hasPII {
		logger.Info("PII detected, ensuring row access policy is attached",
			zap.String("policy", s.cfg.PolicyName))
		if err := s.attachPolicy(ctx, table, logger); err != nil {
			return err
		}
	} else {
		logger.Info("No PII detected, no row policy attached")
	}

	logger.Info("Governance run complete", zap.String("table", table.String()))
	return nil
}

// applyTag sets the sensitivity tag on one column. The label comes from
// the closed enum, never from raw model output, so the literal is safe.
func (s *ProtectService) applyTag(ctx context.Context, table sqlident.QualifiedTable, column string, label models.SensitivityLabel) error {
	if !sqlident.ValidIdentifier(column) {
		return fmt.Errorf("%w: column %q", apperrors.ErrInvalidTableName, column)
	}

	stmt := fmt.Sprintf("ALTER TABLE %s.%s MODIFY COLUMN %s SET TAG %s = '%s'",
		s.session.QuoteIdentifier(table.Schema),
		s.session.QuoteIdentifier(table.Table),
		s.session.QuoteIdentifier(column),
		s.session.QuoteIdentifier(s.cfg.TagName),
		label,
	)

	if _, err := s.session.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("apply tag to %s.%s: %w", table, column, err)
	}
	return nil
}

// attachPolicy attempts to attach the row access policy. This is the one
// recovered failure in the workflow: an attach error of any kind results
// in a POLICY_SKIPPED audit record and the run continues. The details
// string distinguishes the already-attached case from other failures so
// that genuine problems (bad policy name, missing grants) stay visible in
// the log instead of being masked.
func (s *ProtectService) attachPolicy(ctx context.Context, table sqlident.QualifiedTable, logger *zap.Logger) error {
	stmt := fmt.Sprintf("ALTER TABLE %s.%s SET ROW ACCESS POLICY %s",
		s.session.QuoteIdentifier(table.Schema),
		s.session.QuoteIdentifier(table.Table),
		s.session.QuoteIdentifier(s.cfg.PolicyName),
	)

	_, err := s.session.Execute(ctx, stmt)
	if err == nil {
		logger.Info("Row access policy attached", zap.String("policy", s.cfg.PolicyName))
		return s.audit.Append(ctx, models.NewPolicyAttachedRecord(table.String(), s.cfg.PolicyName))
	}

	cause := fmt.Sprintf("attach of %s failed: %s",
		s.cfg.PolicyName, logging.TruncateString(logging.SanitizeError(err), logging.MaxDetailLogLength))
	if isAlreadyAttached(err) {
		err = fmt.Errorf("%w: %v", apperrors.ErrPolicyAlreadyAttached, err)
		cause = "ROW_ACCESS_POLICY already present"
	}

	logger.Warn("Row access policy not attached",
		zap.String("policy", s.cfg.PolicyName),
		zap.String("cause", cause),
		zap.String("error", logging.SanitizeError(err)))

	return s.audit.Append(ctx, models.NewPolicySkippedRecord(table.String(), cause))
}

// isAlreadyAttached distinguishes the expected already-protected failure
// from genuine attach problems (bad policy name, missing grants), which
// are still recovered but keep their real cause in the audit details.
func isAlreadyAttached(err error) bool {
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "already") || strings.Contains(lower, "existing row access policy")
}

// columnValues stringifies one column of the sample in row order. NULL
// cells get the textual form "NULL" so the classifier sees that the
// column is sparsely populated.
func columnValues(sample *warehouse.QueryResult, column string) []string {
	values := make([]string, 0, len(sample.Rows))
	for _, row := range sample.Rows {
		values = append(values, stringifyCell(row[column]))
	}
	return values
}

func stringifyCell(v any) string {
	switch cell := v.(type) {
	case nil:
		return "NULL"
	case string:
		return cell
	case []byte:
		return string(cell)
	default:
		return fmt.Sprintf("%v", cell)
	}
}
