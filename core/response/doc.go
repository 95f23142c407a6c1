// Package response builds handler.Response values for the router.
//
// A Response is a function that writes headers, status and body. Returning an
// error from it hands control to the router's error handler, which
// ErrorHandler and LoggingErrorHandler implement:
//
//	r := router.New[*router.Context](router.WithErrorHandler(
//		response.LoggingErrorHandler(log, response.ErrorHandler[*router.Context]),
//	))
//
// Redirect helpers wrap http.Redirect. The session gate relies on
// RedirectTemporary so that the request method is preserved, and marks its
// redirects WithNoCache.
package response
