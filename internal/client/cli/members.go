package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/router"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/validation"
)

// Members refetches and lists the collaborators of the current workspace.
func (a *App) Members(ctx context.Context, _ []string) error {
	cur, ok := a.workspaceSettings()
	if !ok {
		return nil
	}
	res := a.store.Members.FetchAll(ctx, cur.ID)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	renderMembers(a.out, res.Value, a.selfID())
	return nil
}

// AddMember prompts for an email or user id and a role.
func (a *App) AddMember(ctx context.Context, _ []string) error {
	cur, ok := a.workspaceSettings()
	if !ok {
		return nil
	}
	if !cur.IsAdmin() {
		return errAdminOnly
	}

	who, err := GetSimpleText(a.reader, "Email or User ID", a.out)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.reader, "Role (admin/member, default member)", a.out)
	if err != nil {
		return err
	}
	if role == "" {
		role = string(models.RoleMember)
	}

	form := validation.AddMemberForm{EmailOrUserID: strings.TrimSpace(who), Role: models.Role(strings.ToLower(role))}
	if err := a.validate.Struct(form); err != nil {
		return a.formError(err)
	}

	res := a.store.Members.Add(ctx, cur.ID, form.EmailOrUserID, form.Role)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.store.Members.FetchAll(ctx, cur.ID)
	a.printf("Added %s as %s.\n", form.EmailOrUserID, form.Role)
	return nil
}

// RemoveMember removes member n after confirmation.
func (a *App) RemoveMember(ctx context.Context, args []string) error {
	cur, ok := a.workspaceSettings()
	if !ok {
		return nil
	}
	if !cur.IsAdmin() {
		return errAdminOnly
	}
	m, err := a.pickMember(args)
	if err != nil {
		return err
	}

	ok, err = Confirm(a.reader, "Remove this collaborator from the workspace?", a.out)
	if err != nil || !ok {
		return err
	}
	res := a.store.Members.Remove(ctx, cur.ID, m.UserID.ID)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.store.Members.FetchAll(ctx, cur.ID)
	a.printf("Removed %s.\n", m.UserID.Display())
	return nil
}

// Role changes the role of member n. Admins cannot change their own role.
func (a *App) Role(ctx context.Context, args []string) error {
	cur, ok := a.workspaceSettings()
	if !ok {
		return nil
	}
	if !cur.IsAdmin() {
		return errAdminOnly
	}
	if len(args) < 2 {
		return errors.New("usage: role <n> admin|member")
	}
	role := models.Role(strings.ToLower(args[1]))
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", args[1])
	}
	m, err := a.pickMember(args)
	if err != nil {
		return err
	}
	if m.UserID.ID == a.selfID() {
		return errors.New("you cannot change your own role")
	}

	res := a.store.Members.ChangeRole(ctx, cur.ID, m.UserID.ID, role)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.store.Members.FetchAll(ctx, cur.ID)
	a.printf("%s is now %s.\n", m.UserID.Display(), role)
	return nil
}

// workspaceSettings enters the settings view and returns the current
// workspace.
func (a *App) workspaceSettings() (models.Tenant, bool) {
	if !a.enter(router.Settings) {
		return models.Tenant{}, false
	}
	cur := a.store.Tenants.Current()
	if cur == nil {
		a.println("No workspace selected.")
		return models.Tenant{}, false
	}
	return *cur, true
}

func (a *App) pickMember(args []string) (models.Membership, error) {
	members := a.store.Members.State().Memberships
	i, err := pickIndex(args, len(members), "member")
	if err != nil {
		return models.Membership{}, err
	}
	return members[i], nil
}

func (a *App) selfID() string {
	if u := a.store.Session.State().User; u != nil {
		return u.ID
	}
	return ""
}
