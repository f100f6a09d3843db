// Package session is the client's credential store.
//
// It keeps the access token and the cached user record in a local SQLite
// key/value table (see migrations) and mirrors them in memory, so the request
// pipeline can read the current token on every call without touching disk.
// Writes go to the mirror first and are then persisted; a failed write leaves
// the in-memory session usable and reports the error.
//
// The store also backs a persistent cookie jar holding the refresh cookie the
// API sets at login, which lets a new process refresh an expired access token.
//
// Invariant: Snapshot().IsAuthenticated == (Snapshot().AccessToken != "").
package session
