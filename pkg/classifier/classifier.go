// Package classifier asks a hosted LLM to classify column sensitivity.
package classifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/datacustodian/governance-autopilot/pkg/llm"
	"github.com/datacustodian/governance-autopilot/pkg/models"
	"github.com/datacustodian/governance-autopilot/pkg/prompts"
)

// Result is the outcome of classifying one column.
type Result struct {
	// Label is the normalized sensitivity label.
	Label models.SensitivityLabel
	// Raw is the model's response before normalization.
	Raw string
	// Recognized is false when the raw response was outside the label set
	// and the label fell back to INTERNAL.
	Recognized bool
}

// Classifier classifies a column's sensitivity from its name and a small
// value sample. Pure with respect to local state; the only side effect is
// the remote inference call.
type Classifier struct {
	client llm.LLMClient
	logger *zap.Logger
}

// New creates a Classifier bound to an LLM client.
func New(client llm.LLMClient, logger *zap.Logger) *Classifier {
	return &Classifier{
		client: client,
		logger: logger.Named("classifier"),
	}
}

// Classify builds the classification prompt (at most 5 sample values are
// embedded regardless of input length), calls the model, and normalizes the
// response. Unrecognized output is not an error: it falls back to INTERNAL
// so a confused model never produces PUBLIC or PII. An inference failure
// propagates to the caller; there is no retry and no fallback label.
func (c *Classifier) Classify(ctx context.Context, columnName string, values []string) (Result, error) {
	prompt := prompts.BuildSensitivityPrompt(columnName, values)

	raw, err := c.client.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("classify column %s: %w", columnName, err)
	}

	label, recognized := models.ParseSensitivityLabel(raw)
	if !recognized {
		c.logger.Warn("Unrecognized classifier response, defaulting to INTERNAL",
			zap.String("column", columnName),
			zap.String("model", c.client.GetModel()))
	}

	return Result{Label: label, Raw: raw, Recognized: recognized}, nil
}
