// Package upstream forwards requests that pass the gate to the page renderer.
//
// The proxy rewrites the target URL, sets X-Forwarded-* headers and keeps the
// original Host by default. The request's Cookie header is forwarded as the gate
// left it, so the renderer sees refreshed credentials in the same pass.
//
//	p, err := upstream.New(cfg, upstream.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	r.Handle("/", upstream.Handler[*router.Context](p))
//
// Upstream failures answer 502, or 504 on timeouts.
package upstream
