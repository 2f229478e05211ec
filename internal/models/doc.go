// Package models defines the catalog and identity types shared by the API clients, the session layer and the front-ends.
//
// The package contains three groups of types:
//
// 1. Identity: the cached profile of the signed-in operator
//   - [User] : id, email, name and [Role] as returned by the login endpoint
//
// 2. Catalog listings decoded from the remote API
//   - [Song] : an uploaded track with its metadata
//   - [Album] : an album with its [SubscriptionPlan]
//
// 3. Upload payloads sent as the JSON "request" part of multipart uploads
//   - [SongRequest] : built from form input with [ParseSingers] and [ParseReleaseDate]
//   - [AlbumRequest]
//
// Payloads are checked with [Validate] before any network call is made.
// The cached [User] is display-only: the server remains authoritative for authorization.
package models
