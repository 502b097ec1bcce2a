// Package logging provides structured logging utilities for kdeploy.
//
// Logging goes through the standard library's slog package. This package keeps
// attribute names consistent across the codebase and provides the default
// logger construction used when a deploy is not handed a logger explicitly.
//
// # Usage Patterns
//
// Build the per-deploy default logger:
//
//	logger := logging.NewFormatted("my-namespace", "prod-cluster", nil)
//	logger.Info("fetching resource kinds", logging.Scope("global"))
//
// Wrap an existing slog logger:
//
//	logger := logging.NewSlogAdapter(slog.New(logging.NewHandler("json", slog.LevelDebug, os.Stderr)))
//
// # Security Considerations
//
// API server URLs have IP addresses redacted by SanitizeHost and SanitizedErr
// so that discovery failures do not leak network topology into logs.
package logging
