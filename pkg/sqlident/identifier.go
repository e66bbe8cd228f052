// Package sqlident validates SQL identifiers before they are placed near
// generated statements. Table and column names come from user input and
// warehouse metadata; labels come from a closed enum. Nothing here is ever
// interpolated unquoted.
package sqlident

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/datacustodian/governance-autopilot/pkg/apperrors"
)

// identifierPattern is the strict grammar for a single unquoted identifier:
// letter or underscore first, word characters after.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QualifiedTable is a validated schema-qualified table name.
type QualifiedTable struct {
	Schema string
	Table  string
}

// String returns the dotted form without quoting. Use a session's
// QuoteIdentifier for anything that goes into SQL.
func (q QualifiedTable) String() string {
	return q.Schema + "." + q.Table
}

// ParseQualifiedTable validates a fully qualified "schema.table" name.
// Both parts are required and must match the identifier grammar.
func ParseQualifiedTable(fullName string) (QualifiedTable, error) {
	parts := strings.Split(fullName, ".")
	if len(parts) != 2 {
		return QualifiedTable{}, fmt.Errorf("%w: %q is not in schema.table form", apperrors.ErrInvalidTableName, fullName)
	}

	for _, part := range parts {
		if !identifierPattern.MatchString(part) {
			return QualifiedTable{}, fmt.Errorf("%w: %q contains an invalid identifier", apperrors.ErrInvalidTableName, fullName)
		}
	}

	return QualifiedTable{Schema: parts[0], Table: parts[1]}, nil
}

// ValidIdentifier reports whether name matches the identifier grammar.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}
