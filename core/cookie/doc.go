// Package cookie describes cookie writes as values so they can be applied to both
// sides of a proxied exchange.
//
// A Mutation is a pending Set-Cookie. The Manager stamps mutations with the
// configured attributes:
//
//	m := cookie.NewFromConfig(cfg)
//	muts := []cookie.Mutation{
//		m.Set("nb-access-token", access, cookie.WithMaxAge(900)),
//		m.Delete("nb-legacy"),
//	}
//
//	cookie.ApplyToRequest(r, muts) // forwarded request sees the new values
//	err := m.Write(w, muts...)     // browser receives them once
//
// Later mutations for the same cookie override earlier ones. Parse and FromRequest
// read request cookies and silently drop malformed pairs.
package cookie
