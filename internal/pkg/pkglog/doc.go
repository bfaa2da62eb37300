// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys and a runtime level.
//   - Attaching the request correlation ID and, inside upload workers, the
//     upload ID to each log record.
package pkglog
