// Package middleware provides the HTTP middleware used in front of the upstream
// renderer.
//
// All middleware functions follow the same pattern:
//   - generic over the handler.Context type
//   - a default constructor plus a WithConfig variant where configuration exists
//   - context helpers for values they store
//
// # Request ID
//
// RequestID assigns an ID to each request, stores it in the context and echoes it in
// the X-Request-ID response header. RequestIDExtractor feeds it to the logger:
//
//	log := logger.New(logger.WithContextExtractors(middleware.RequestIDExtractor()))
//	r.Use(middleware.RequestID[*router.Context]())
//
// # Client IP
//
// ClientIP stores the caller's address, read from X-Forwarded-For or X-Real-IP when
// the service runs behind a trusted proxy.
//
// # Logging
//
// Logging writes one record per request after the response is rendered, with
// status, duration, client IP, signed-in user and redirect target. 5xx responses
// log at error level; 4xx and slow requests at warning level.
//
// # Gate
//
// Gate mounts a *gate.Gate: credential refresh, redirect policy and cookie
// propagation. Static assets skip it.
//
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.ClientIP[*router.Context](),
//		middleware.LoggingWithLogger[*router.Context](log),
//		middleware.Gate[*router.Context](g),
//	)
//
// Handlers behind the gate read the session with GetSession.
package middleware
