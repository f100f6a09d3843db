package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/router"
)

func (a *App) getStatus() string {
	var parts []string
	if u := a.store.Session.State().User; u != nil && a.isLoggedIn() {
		parts = append(parts, u.Username)
	}
	if t := a.store.Tenants.Current(); t != nil {
		parts = append(parts, fmt.Sprintf("@ %s [%s]", t.Name, t.Plan))
	}
	parts = append(parts, a.nav.Location())
	return "(" + strings.Join(parts, " ") + ")"
}

// Root greets the user, restores the stored session and runs the REPL until
// the user exits.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to CollabNotes CLI (type 'help' for commands)")

	if a.isLoggedIn() {
		// Leave the login view first so a failed refresh redirects back to
		// it and expires the restored session.
		a.nav.Navigate(router.Notes)
		a.loadTenants(ctx)
	}
	if a.isLoggedIn() {
		a.enter(router.Notes)
	} else {
		a.nav.Navigate(router.Login)
	}

	runREPL(ctx, a.commands(), a.isLoggedIn, a.getStatus, a.reader, a.out)
}

func (a *App) commands() []command {
	return []command{
		{name: "register", help: "create an account", run: a.Register},
		{name: "login", help: "sign in", run: a.Login},
		{name: "logout", help: "sign out", auth: true, run: a.Logout},
		{name: "whoami", help: "show the signed-in user", auth: true, run: a.WhoAmI},

		{name: "workspaces", aliases: []string{"ws"}, help: "list your workspaces", auth: true, run: a.Workspaces},
		{name: "use", usage: "<n>", help: "switch to workspace n", auth: true, run: a.Use},
		{name: "newworkspace", help: "create a workspace", auth: true, run: a.NewWorkspace},
		{name: "deleteworkspace", help: "delete the current workspace (admin)", auth: true, run: a.DeleteWorkspace},
		{name: "plan", usage: "free|pro", help: "change the workspace plan (admin)", auth: true, run: a.Plan},
		{name: "upgrade", help: "upgrade the workspace to Pro", auth: true, run: a.Upgrade},
		{name: "settings", help: "show workspace settings", auth: true, run: a.Settings},

		{name: "notes", aliases: []string{"ls"}, help: "list notes", auth: true, run: a.Notes},
		{name: "addnote", help: "write a note", auth: true, run: a.AddNote},
		{name: "editnote", usage: "<n>", help: "edit note n", auth: true, run: a.EditNote},
		{name: "deletenote", usage: "<n>", help: "delete note n", auth: true, run: a.DeleteNote},

		{name: "members", help: "list workspace members", auth: true, run: a.Members},
		{name: "addmember", help: "add a member (admin)", auth: true, run: a.AddMember},
		{name: "removemember", usage: "<n>", help: "remove member n (admin)", auth: true, run: a.RemoveMember},
		{name: "role", usage: "<n> admin|member", help: "change the role of member n (admin)", auth: true, run: a.Role},

		{name: "stats", usage: "[all]", help: "show client metrics", run: a.Stats},
		{name: "exit", aliases: []string{"quit"}, help: "leave the program", run: a.Exit},
	}
}

// Exit says goodbye and ends the REPL.
func (a *App) Exit(context.Context, []string) error {
	a.println("Bye!")
	return errQuit
}

func (a *App) access() router.Access {
	return router.Access{
		Authenticated: a.isLoggedIn(),
		HasWorkspace:  a.store.Tenants.Current() != nil,
	}
}

// enter navigates to route through the guard. It reports false, after
// telling the user why, when the view cannot be shown.
func (a *App) enter(route string) bool {
	if a.isLoggedIn() && a.sessions.Token() == "" {
		a.expireSession()
	}
	d := router.Guard(route, a.access())
	a.nav.Navigate(d.Path)
	if d.Path == router.Login && route != router.Login {
		a.println("Please log in first.")
		return false
	}
	if d.NeedsWorkspace {
		a.println("No workspace selected. Create one with 'newworkspace' or pick one with 'workspaces' and 'use <n>'.")
		return false
	}
	return true
}

// loadTenants fetches the workspace list and, when one is selected, its
// notes and members.
func (a *App) loadTenants(ctx context.Context) {
	if res := a.store.Tenants.FetchAll(ctx); !res.OK() {
		a.println(res.Message)
		return
	}
	a.loadWorkspace(ctx)
}

func (a *App) loadWorkspace(ctx context.Context) {
	if a.store.Tenants.Current() == nil {
		return
	}
	if err := a.store.LoadWorkspace(ctx); err != nil {
		a.logger.Warn(ctx, "load workspace", "error", err)
	}
}
