// Package logger builds slog loggers and provides attribute helpers so that log
// lines share consistent keys across the service.
//
//	log := logger.New(
//		logger.WithProduction("notegate"),
//		logger.WithContextExtractors(requestid.Extractor),
//	)
//	log.InfoContext(ctx, "note resolved", logger.UserID(uid), logger.NoteID(id))
//
// Attribute helpers return an empty slog.Attr for zero inputs, which slog drops,
// so callers never need nil checks around optional values.
package logger
