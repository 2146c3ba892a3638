// Package log provides logging functionality with automatic redaction
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic redaction of sensitive values (cookies, tokens, secrets)
//   - Redaction of credentials embedded in logged URLs
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Redaction
//
// The RedactingHandler automatically masks sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (JWTs, bearer tokens)
//   - URL userinfo (user:password@host) and sensitive query parameters
//   - Session identifiers and authentication tokens
//
// A crawler logs URLs on nearly every line, and crawled sites sometimes
// embed session tokens or API keys in their links. Even in verbose mode,
// these values are masked to prevent accidental exposure of secrets in
// logs that may be shared or stored.
//
// # Usage
//
//	// Create a redacting logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("fetched",
//	    "cookie", "session=abc123",  // Will be masked
//	    "url", "https://example.com/?page=2",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
