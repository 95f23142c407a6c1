// Package gate decides, once per request, whether a request reaches the page
// renderer or is redirected.
//
// A request goes through four steps in a fixed order:
//
//  1. the Refresher turns credential cookies into an identity.Session and a list of
//     cookie mutations (rotated or cleared tokens);
//  2. the Classifier maps the path to RouteAuthPage, RouteAppRoot or RouteOther;
//  3. the Policy turns route, session and query into one Decision, asking the note
//     Resolver for the user's working note only on the app root without a noteId;
//  4. Compose writes the cookie mutations and then either a 307 redirect or the
//     downstream response.
//
// Static assets matched by the StaticMatcher skip all of it.
//
// Basic usage:
//
//	g, err := gate.New(cfg, adapter, resolver, gate.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	res := g.Evaluate(ctx, gate.NewRequest(r))
//	resp := g.Compose(res, next)
//
// The middleware package mounts the gate on the router.
package gate
