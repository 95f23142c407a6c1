// Package identity turns credential cookies into a per-request Session.
//
// The Adapter reads the access and refresh cookies, asks a Provider to validate
// them, and returns the cookie mutations the browser needs when the provider rotated
// the pair or rejected it:
//
//	sess, muts := adapter.Refresh(ctx, cookie.FromRequest(r))
//	if sess.IsAuthenticated() {
//		// sess.UserID is the signed-in user
//	}
//
// Refresh never fails. Definitive rejections clear the credential cookies; transient
// provider failures leave them alone and yield an unauthenticated session.
//
// TokenProvider is the bundled Provider. Access tokens are HS256 JWTs; refresh tokens
// are opaque "<session>.<secret>" strings whose secret hash lives in Redis and is
// rotated atomically on every use. Presenting a rotated refresh token revokes the
// session.
package identity
