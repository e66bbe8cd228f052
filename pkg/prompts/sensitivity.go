// Package prompts builds the natural-language prompts sent to the LLM.
package prompts

import (
	"fmt"
	"strings"

	"github.com/datacustodian/governance-autopilot/pkg/models"
)

// MaxSampleValues caps how many sampled cell values are embedded in a
// classification prompt, regardless of how many were sampled.
const MaxSampleValues = 5

// BuildSensitivityPrompt creates the column sensitivity classification prompt.
// It embeds the column name, at most MaxSampleValues sample values, the
// closed label set, and an instruction to answer with the label alone.
func BuildSensitivityPrompt(columnName string, values []string) string {
	if len(values) > MaxSampleValues {
		values = values[:MaxSampleValues]
	}

	var prompt strings.Builder
	prompt.WriteString("Classify this column's sensitivity.\n")
	prompt.WriteString(fmt.Sprintf("Column: %s\n", columnName))
	prompt.WriteString(fmt.Sprintf("Values: [%s]\n", strings.Join(values, ", ")))

	labels := make([]string, len(models.AllSensitivityLabels))
	for i, label := range models.AllSensitivityLabels {
		labels[i] = label.String()
	}
	prompt.WriteString(fmt.Sprintf("Labels: %s\n", strings.Join(labels, ", ")))
	prompt.WriteString("Return only the label.")

	return prompt.String()
}
