// Package health provides HTTP handlers for service health monitoring.
//
//	r.Get("/live", health.Liveness[*router.Context])
//	r.Get("/ready", health.Readiness[*router.Context](log,
//		health.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//		health.Check{Name: "notes", Fn: store.Ping},
//	))
//
// Readiness runs its checks concurrently and answers 503 when any of them fails.
package health
