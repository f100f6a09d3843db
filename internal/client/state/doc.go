// Package state holds the client's view state in four slices: session,
// tenants, notes and memberships.
//
// Each slice owns a collection, a Status and the last error message. Only the
// slice's own operations change it; each operation returns a Result whose
// message is also stored on the slice, so views never see raw transport
// errors. Store ties the slices together for cross-slice flows such as
// logout and workspace switching.
package state
