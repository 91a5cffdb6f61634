// Package logger provides a thin factory around Go's slog package with
// functional options for level, format and static attributes, plus helper
// attribute constructors used across the client core.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithTextFormatter(),
//	    logger.WithAttr(slog.String("component", "session")),
//	)
//	logger.SetAsDefault(log)
//
// Helper constructors such as Error, UserID and SessionState keep attribute
// naming consistent across packages.
package logger
