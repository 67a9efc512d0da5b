// Package telemetry provides structured logging for starvals.
//
// Logging is built on zerolog. A Logger is created from a LoggingConfig,
// can derive per-component child loggers, and travels through
// context.Context so that evaluation code logs with the run metadata its
// caller established.
package telemetry
