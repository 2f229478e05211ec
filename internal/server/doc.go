// Package server provides HTTP routing, middleware, and the route guard for the local admin console.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns. Per-route middleware passed to
// [BasicRouter.Handle] runs inside the router-wide stack, which is how pages opt into the guard.
//
// # Route Guard
//
// [Guard] reads the session state and decides before the page handler runs:
//   - loading, unauthenticated : redirect to /login
//   - authenticated non-admin on an admin page : redirect to /forbidden
//   - otherwise : serve
//
// HTMX requests receive HX-Redirect with 401 or 403 so the client performs a full navigation.
//
// # Middleware
//
// [Logging] writes one structured line per request and echoes an X-Request-ID.
// [Recover] converts handler panics into 500 responses.
// [SameOrigin] answers 421 to requests for a foreign Host and 403 to cross-site form posts.
//
// # Lifecycle
//
// [Run] serves until its context is canceled and then shuts down gracefully.
package server
