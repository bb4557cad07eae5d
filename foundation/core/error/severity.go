// File: severity.go
// Title: Error Severity
// Description: Severity levels used to pick a log level and decide whether
//              an error is worth surfacing to operators.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package error

// Severity ranks errors by impact
type Severity int

const (
	// SeverityLow covers bad user input such as syntax errors
	SeverityLow Severity = iota

	// SeverityMedium covers failures with a workaround
	SeverityMedium

	// SeverityHigh covers failures of a whole operation
	SeverityHigh

	// SeverityCritical covers failures that leave the process unusable
	SeverityCritical
)

// String returns the name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert reports whether operators should be notified
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode returns the default severity for code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInvalidInput, CodeNotFound, CodeLexical, CodeSyntax, CodeLiteralFormat:
		return SeverityLow
	case CodeStorageError, CodeServiceUnavailable, CodeInvalidConfig, CodeConfigError:
		return SeverityHigh
	case CodeInternal:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
