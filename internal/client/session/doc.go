// Package session owns the authenticated-user state of a platform client:
// who is signed in, which bearer credential is current, and how that state
// survives restarts.
//
// A Manager starts in the bootstrapping phase and moves between
// Authenticated and Unauthenticated in response to Bootstrap, Login,
// Logout, RefreshAuth and ForceLogout. The access token, refresh token and
// user record are written through to a storage.Store before the in-memory
// state changes, and every clear removes all three keys in one transaction.
//
// # Concurrency
//
// All methods are safe for concurrent use. Network calls run without the
// state lock held. Only one Login, RefreshAuth or Bootstrap may be in flight;
// a second call fails fast with ErrBusy. Any transition that clears the
// session invalidates requests still in flight, and their results are
// discarded with ErrSuperseded.
//
// # Observation
//
// State returns a snapshot. Subscribe delivers snapshots in increasing
// Version order; a subscriber may miss intermediate versions but never sees
// an older one after a newer one. Subscribers run synchronously and must not
// call mutating Manager methods.
package session
