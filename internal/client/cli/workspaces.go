package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/router"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/validation"
)

var errAdminOnly = errors.New("only workspace admins can do that")

// Workspaces refetches and lists the user's workspaces; the current one is
// marked with '*'.
func (a *App) Workspaces(ctx context.Context, _ []string) error {
	if !a.enter(router.Settings) {
		return nil
	}
	res := a.store.Tenants.FetchAll(ctx)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	renderWorkspaces(a.out, res.Value, a.store.Tenants.Current())
	return nil
}

// Use switches to workspace n of the last listing and loads its notes.
func (a *App) Use(ctx context.Context, args []string) error {
	if !a.enter(router.Settings) {
		return nil
	}
	tenants := a.store.Tenants.State().Tenants
	i, err := pickIndex(args, len(tenants), "workspace")
	if err != nil {
		return err
	}
	a.store.SelectWorkspace(tenants[i])
	a.loadWorkspace(ctx)
	a.printf("Switched to %s.\n", tenants[i].Name)
	return a.Notes(ctx, nil)
}

// NewWorkspace prompts for a name and plan, creates the workspace and
// switches to it.
func (a *App) NewWorkspace(ctx context.Context, _ []string) error {
	if !a.enter(router.Settings) {
		return nil
	}
	name, err := GetSimpleText(a.reader, "Workspace name", a.out)
	if err != nil {
		return err
	}
	plan, err := GetSimpleText(a.reader, "Plan (free/pro, default free)", a.out)
	if err != nil {
		return err
	}

	form := validation.WorkspaceForm{Name: strings.TrimSpace(name), Plan: models.Plan(strings.ToLower(plan))}
	if err := a.validate.Struct(form); err != nil {
		return a.formError(err)
	}
	if form.Plan == "" {
		form.Plan = models.PlanFree
	}

	res := a.store.CreateWorkspace(ctx, api.CreateTenantRequest{Name: form.Name, Plan: form.Plan})
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.loadWorkspace(ctx)
	a.printf("Workspace %q created.\n", res.Value.Name)
	a.enter(router.Notes)
	return nil
}

// DeleteWorkspace deletes the current workspace after confirmation.
func (a *App) DeleteWorkspace(ctx context.Context, _ []string) error {
	cur, ok := a.workspaceSettings()
	if !ok {
		return nil
	}
	if !cur.IsAdmin() {
		return errAdminOnly
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete workspace %q? This cannot be undone.", cur.Name), a.out)
	if err != nil || !ok {
		return err
	}

	res := a.store.DeleteWorkspace(ctx, cur.ID)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.printf("Workspace %q deleted.\n", cur.Name)
	if next := a.store.Tenants.Current(); next != nil {
		a.loadWorkspace(ctx)
		a.printf("Switched to %s.\n", next.Name)
	}
	return nil
}

// Plan changes the subscription of the current workspace.
func (a *App) Plan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: plan free|pro")
	}
	plan := models.Plan(strings.ToLower(args[0]))
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q", args[0])
	}
	cur, ok := a.workspaceSettings()
	if !ok {
		return nil
	}
	if !cur.IsAdmin() {
		return errAdminOnly
	}
	if cur.Plan == plan {
		a.printf("%s is already on the %s plan.\n", cur.Name, planLabel(plan))
		return nil
	}

	res := a.store.Tenants.EditSubscription(ctx, cur.ID, plan)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.printf("%s is now on the %s plan.\n", res.Value.Name, planLabel(res.Value.Plan))
	return nil
}

// Upgrade moves the current workspace to Pro after confirmation.
func (a *App) Upgrade(ctx context.Context, _ []string) error {
	if !a.enter(router.Notes) {
		return nil
	}
	cur := a.store.Tenants.Current()
	if cur.Plan == models.PlanPro {
		a.println("This workspace is already on the Pro plan.")
		return nil
	}

	ok, err := Confirm(a.reader, "Upgrade to Pro plan for unlimited notes?", a.out)
	if err != nil || !ok {
		return err
	}
	res := a.store.Upgrade(ctx)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.println("Upgraded to Pro. Notes are now unlimited.")
	return nil
}

// Settings shows the current workspace, its plan and collaborator count.
func (a *App) Settings(ctx context.Context, _ []string) error {
	cur, ok := a.workspaceSettings()
	if !ok {
		return nil
	}
	members := a.store.Members.FetchAll(ctx, cur.ID)

	tw := newTable(a.out)
	fmt.Fprintf(tw, "Workspace\t%s\n", cur.Name)
	fmt.Fprintf(tw, "ID\t%s\n", cur.ID)
	fmt.Fprintf(tw, "Plan\t%s\n", planLabel(cur.Plan))
	fmt.Fprintf(tw, "Your role\t%s\n", orDash(string(cur.UserRole)))
	if members.OK() {
		fmt.Fprintf(tw, "Collaborators\t%d\n", len(members.Value))
	}
	if cur.Plan == models.PlanFree {
		fmt.Fprintf(tw, "Note limit\t%d per member\n", models.FreePlanNoteLimit)
	}
	tw.Flush()
	return nil
}
