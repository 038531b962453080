// Package logging provides structured logging for the adsfwd tools.
//
// This package wraps a global zap logger with convenience functions. It is
// silent by default so library code (the scanner in particular) never writes
// to the terminal unless the operator asks for it.
//
// # Log Levels
//
//   - Debug: datagrams sent and received, request details
//   - Info: devices found, scan start/finish
//   - Warn: interface enumeration problems
//   - Error: failed scans (socket errors, unknown interface)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// An empty level falls back to the ADSFWD_LOG_LEVEL environment variable.
// Logs go to stderr in console format so they never mix with command output
// or hex dumps on stdout.
//
// # Thread Safety
//
// Logging functions are safe for concurrent use once Initialize has run.
package logging
