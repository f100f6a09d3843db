package state

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

// API is everything the slices need from the backend client.
type API interface {
	UsersAPI
	TenantsAPI
	NotesAPI
	MembersAPI
}

// ErrNoWorkspace is returned by workspace operations when none is selected.
var ErrNoWorkspace = errors.New("no workspace selected")

type Store struct {
	Session *SessionSlice
	Tenants *TenantSlice
	Notes   *NoteSlice
	Members *MembershipSlice
}

func NewStore(client API, creds CredentialStore) *Store {
	return &Store{
		Session: NewSessionSlice(client, creds),
		Tenants: NewTenantSlice(client),
		Notes:   NewNoteSlice(client),
		Members: NewMembershipSlice(client),
	}
}

// LogoutAndReset clears the workspace slices, then the session.
func (s *Store) LogoutAndReset(ctx context.Context) error {
	s.resetWorkspace()
	return s.Session.Logout(ctx)
}

// Expire resyncs the view state after the stored session was dropped
// elsewhere (failed token refresh).
func (s *Store) Expire() {
	s.resetWorkspace()
	s.Session.Reload()
}

func (s *Store) resetWorkspace() {
	s.Tenants.Reset()
	s.Notes.Reset()
	s.Members.Reset()
}

// SelectWorkspace switches the current tenant and drops the previous one's
// notes and members.
func (s *Store) SelectWorkspace(t models.Tenant) {
	s.Tenants.SetCurrent(&t)
	s.Notes.Clear()
	s.Members.Clear()
}

// CreateWorkspace creates a tenant, refetches the list for authoritative
// roles and selects the new tenant.
func (s *Store) CreateWorkspace(ctx context.Context, req api.CreateTenantRequest) Result[models.Tenant] {
	created := s.Tenants.Create(ctx, req)
	if !created.OK() {
		return created
	}

	selected := created.Value
	if all := s.Tenants.FetchAll(ctx); all.OK() {
		for _, t := range all.Value {
			if t.ID == created.Value.ID {
				selected = t
				break
			}
		}
	}
	s.SelectWorkspace(selected)
	return ok(selected)
}

// DeleteWorkspace deletes a tenant; when it was selected the notes and
// members of the new selection must be loaded again.
func (s *Store) DeleteWorkspace(ctx context.Context, tenantID string) Result[string] {
	before := s.Tenants.Current()
	res := s.Tenants.Delete(ctx, tenantID)
	if res.OK() && before != nil && before.ID == tenantID {
		s.Notes.Clear()
		s.Members.Clear()
	}
	return res
}

// LoadWorkspace fetches notes and members of the current tenant
// concurrently. Each slice settles on its own result; a failure of one load
// does not cancel the other.
func (s *Store) LoadWorkspace(ctx context.Context) error {
	cur := s.Tenants.Current()
	if cur == nil {
		return ErrNoWorkspace
	}

	var g errgroup.Group
	g.Go(func() error {
		if r := s.Notes.FetchAll(ctx, cur.ID); !r.OK() {
			return fmt.Errorf("load notes: %s", r.Message)
		}
		return nil
	})
	g.Go(func() error {
		if r := s.Members.FetchAll(ctx, cur.ID); !r.OK() {
			return fmt.Errorf("load members: %s", r.Message)
		}
		return nil
	})
	return g.Wait()
}

// AddNote creates a note in the current tenant and reloads the list.
func (s *Store) AddNote(ctx context.Context, in api.NoteInput) Result[models.Note] {
	cur := s.Tenants.Current()
	if cur == nil {
		return failed[models.Note](ErrNoWorkspace, ErrNoWorkspace.Error())
	}
	res := s.Notes.Create(ctx, cur.ID, in)
	if res.OK() {
		s.Notes.FetchAll(ctx, cur.ID)
	}
	return res
}

// UpdateNote edits a note in the current tenant and reloads the list.
func (s *Store) UpdateNote(ctx context.Context, noteID string, in api.NoteInput) Result[models.Note] {
	cur := s.Tenants.Current()
	if cur == nil {
		return failed[models.Note](ErrNoWorkspace, ErrNoWorkspace.Error())
	}
	res := s.Notes.Edit(ctx, cur.ID, noteID, in)
	if res.OK() {
		s.Notes.FetchAll(ctx, cur.ID)
	}
	return res
}

// CanCreateNote applies the free-plan limit to the signed-in user in the
// current tenant.
func (s *Store) CanCreateNote() bool {
	cur := s.Tenants.Current()
	if cur == nil {
		return false
	}
	user := s.Session.State().User
	if user == nil {
		return false
	}
	return models.CanCreateNote(*cur, s.Notes.State().Notes, user.ID)
}

// Upgrade moves the current tenant to the pro plan.
func (s *Store) Upgrade(ctx context.Context) Result[models.Tenant] {
	cur := s.Tenants.Current()
	if cur == nil {
		return failed[models.Tenant](ErrNoWorkspace, ErrNoWorkspace.Error())
	}
	return s.Tenants.EditSubscription(ctx, cur.ID, models.PlanPro)
}
