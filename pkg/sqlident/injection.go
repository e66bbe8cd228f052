package sqlident

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on an
// input value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	InputName   string // Name of the input that failed the check
	InputValue  string // The value that was checked
}

// CheckInputForInjection uses libinjection to detect SQL injection patterns
// in a free-form input value. The identifier grammar already rejects
// anything that could escape quoting; this check exists so that attempts
// are detected and audited rather than silently failing validation.
//
// Returns nil if no injection is detected.
func CheckInputForInjection(inputName, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			InputName:   inputName,
			InputValue:  value,
		}
	}

	return nil
}
