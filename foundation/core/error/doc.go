// Package error provides structured errors for the trump toolchain.
//
// Package: error
// Title: Structured Errors
// Description: An error type carrying a classification code, a severity,
//
//	the failing operation and free-form details. Parser
//	diagnostics, configuration failures and service errors are
//	all reported through it so callers can branch on codes and
//	loggers can emit them as structured data.
//
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation
//
// Usage:
//
//	import mdwerror "github.com/abyanmajid/trump/foundation/core/error"
//
//	err := mdwerror.New("source exceeds maximum length").
//	  WithCode(mdwerror.CodeInvalidInput).
//	  WithOperation("lang.Parse").
//	  WithDetail("length", n)
//
//	if mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
//	  // reject the request
//	}
package error
