// File: codes.go
// Title: Error Codes
// Description: Classification codes for errors raised by the front-end and
//              the services around it.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package error

import "net/http"

// Code classifies an error
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Language front-end
	CodeLexical       Code = "LEXICAL"
	CodeSyntax        Code = "SYNTAX"
	CodeLiteralFormat Code = "LITERAL_FORMAT"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage and services
	CodeStorageError       Code = "STORAGE_ERROR"
	CodeServiceError       Code = "SERVICE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

// String returns the code as a string
func (c Code) String() string {
	return string(c)
}

// IsValid reports whether c is one of the declared codes
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeLexical, CodeSyntax, CodeLiteralFormat,
		CodeConfigError, CodeInvalidConfig,
		CodeStorageError, CodeServiceError, CodeServiceUnavailable:
		return true
	default:
		return false
	}
}

// Category returns the group a code belongs to
func (c Code) Category() string {
	switch c {
	case CodeLexical, CodeSyntax, CodeLiteralFormat:
		return "language"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeStorageError, CodeServiceError, CodeServiceUnavailable:
		return "service"
	default:
		return "generic"
	}
}

// HTTPStatus maps a code to an HTTP status
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeLexical, CodeSyntax, CodeLiteralFormat:
		return http.StatusBadRequest
	case CodeTimeout:
		return http.StatusRequestTimeout
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
