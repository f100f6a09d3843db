// Package cli provides the interactive CollabNotes command-line client.
//
// It wires configuration, the local session store, the API client, the state
// slices and a REPL whose commands play the role of the application's views:
// login and registration, the notes view of the selected workspace, and the
// workspace settings view with its members.
//
// Navigation goes through a router.Navigator. Protected commands are checked
// with router.Guard, and a redirect to the login view issued by the API
// client (failed token refresh) resets the view state.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
