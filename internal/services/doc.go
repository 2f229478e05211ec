// Package services is the outbound side of the console: one authenticated HTTP pipeline to the
// catalog API and typed clients for the songs and albums resources built on it.
//
// # Pipeline
//
// [APIService] owns the base URL and an [http.Client] whose transport is an [AuthTransport].
// The transport loads the session from a [store.TokenStore] on every request and, when a
// token is present, attaches it as a bearer Authorization header. Requests made without a
// session proceed unauthenticated. The transport also stamps an X-Request-ID and waits on an
// optional rate limiter.
//
// # Status Policy
//
// Every response is classified before the caller sees it:
//   - 2xx : returned as an [APIResponse]
//   - 401 : every [SessionInvalidListener] runs synchronously, then an [*APIError] matching [shared.ErrSessionInvalid] is returned
//   - other non-2xx : an [*APIError] matching [shared.ErrAPIRequest], carrying the server message when one was sent
//   - no response : an error matching [shared.ErrServiceUnavailable]; listeners are not notified
//
// # Resource Clients
//
// [SongsClient] and [AlbumsClient] are thin wrappers over the REST endpoints. Uploads are
// multipart: a JSON part named "request" followed by the file parts ("audio" and "image" for
// songs, "file" for albums). Errors pass through unchanged.
package services
