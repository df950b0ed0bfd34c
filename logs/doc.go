// Package logs provides a structured logging solution using the Zap logging library.
// It includes utilities for creating and managing loggers, setting log levels,
// and integrating logging with context for enhanced traceability.
// The package supports key-value logging, colored console output, and
// size-rotated file output, making it suitable for both development and
// production environments.
package logs
