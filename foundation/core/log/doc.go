// Package log provides structured logging for the trump toolchain.
//
// Package: log
// Title: Structured Logging
// Description: Leveled, structured logging with persistent context fields,
//
//	pluggable output formats and operation timers. Used by the
//	language front-end to report parse runs and by the services
//	built on top of it.
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
//	import mdwlog "github.com/abyanmajid/trump/foundation/core/log"
//
//	logger := mdwlog.NewWithConfig(mdwlog.Config{
//	  Level:  mdwlog.LevelDebug,
//	  Format: mdwlog.FormatConsole,
//	}).WithField("component", "parser")
//
//	logger.Info("program parsed", mdwlog.Fields{"statements": 3})
//
//	timer := logger.StartTimer("parse")
//	// ... parse
//	timer.Stop()
package log
