// Package logger provides structured logging for fetchmoots.
//
// It wraps zerolog behind a small Logger interface so components can be
// handed a TestLogger or a no-op logger in tests. Console output goes to
// stderr so it never interleaves with the progress lines printed on stdout.
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("file", path).Info("Timeline file processed")
//
// When LoggingConfig.File is set, JSON lines are appended to that file as
// well as the console.
package logger
