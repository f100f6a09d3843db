// Package api is the HTTP client for the CollabNotes backend.
//
// # Overview
//
// Every call goes through one pipeline (see Client):
//  1. The stored access token, when present, is attached as a bearer
//     credential together with a per-call request id.
//  2. A 401 on a call that has not been replayed yet starts the refresh
//     protocol. One caller becomes the leader and issues the single refresh
//     request; every other caller that hits a 401 meanwhile waits for its
//     outcome and then replays with the new token or fails with the same
//     error.
//  3. A failed refresh clears the stored session and sends the user to the
//     login view.
//
// A logical call is replayed at most once.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the server's message
// verbatim. Callers match classes with errors.Is against ErrValidation,
// ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict and ErrServer.
// Transport failures wrap ErrUnavailable.
//
// Concurrency & Contexts
//
// Client is safe for concurrent use. Context cancellation stops a waiting
// caller without disturbing a refresh already in flight.
package api
