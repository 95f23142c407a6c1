// Package redis connects the go-redis client used for refresh-session storage.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	checks := health.Check{Name: "redis", Fn: redis.Healthcheck(client)}
//
// Connect accepts redis:// and rediss:// URLs, retries with exponential backoff and
// returns only after a successful PING.
package redis
