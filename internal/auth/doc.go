// Package auth manages the operator session.
//
// A [Manager] is the only writer of the session. It combines the durable pair held by a
// [store.TokenStore] with an in-memory snapshot that front-ends read through
// [Manager.State], [Manager.IsAuthenticated], [Manager.IsAdmin] and [Manager.User].
//
// # State Machine
//
//	loading ──Hydrate──▶ unauthenticated ◀──Logout / 401──┐
//	   │                      │                           │
//	   └──────Hydrate─────────┴──────Login──▶ authenticated-user | authenticated-admin
//
// Role only decides between the two authenticated states; the API remains authoritative.
//
// # Rejected Sessions
//
// The manager listens for [services.SessionInvalid] signals. When the API answers 401 to a
// request that carried the token the manager currently holds, the store is cleared, the
// unauthenticated state is published and the [Navigator] is sent to [LoginPath]. Signals for
// a token that has since been replaced, or for unauthenticated requests, change nothing.
//
// A login that completes after a concurrent logout or rejection is discarded.
package auth
