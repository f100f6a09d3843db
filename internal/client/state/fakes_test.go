package state

import (
	"context"
	"sync"
	"time"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/session"
)

/*************
 * Fake backend
 *************/

type fakeAPI struct {
	mu sync.Mutex

	registerErr error
	loginRes    api.LoginResult
	loginErr    error

	created     models.Tenant
	createErr   error
	memberships []models.Membership
	listErr     error
	deleteErr   error
	edited      models.Tenant
	editErr     error

	notes         map[string][]models.Note
	noteErr       error
	listNoteCalls int

	members    []models.Membership
	membersErr error
	// membersDone, when set, is closed by ListMembers and holds ListNotes
	// until then.
	membersDone chan struct{}
	added      models.Membership
	roleChange models.Membership
}

func (f *fakeAPI) Register(context.Context, api.RegisterRequest) error { return f.registerErr }

func (f *fakeAPI) Login(context.Context, api.LoginRequest) (api.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) CreateTenant(context.Context, api.CreateTenantRequest) (models.Tenant, error) {
	return f.created, f.createErr
}

func (f *fakeAPI) ListTenantMemberships(context.Context) ([]models.Membership, error) {
	return f.memberships, f.listErr
}

func (f *fakeAPI) DeleteTenant(context.Context, string) error { return f.deleteErr }

func (f *fakeAPI) EditSubscription(context.Context, string, models.Plan) (models.Tenant, error) {
	return f.edited, f.editErr
}

func (f *fakeAPI) CreateNote(_ context.Context, tenantID string, in api.NoteInput) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.noteErr != nil {
		return models.Note{}, f.noteErr
	}
	n := models.Note{ID: in.Title, Title: in.Title, Content: in.Content, CreatedBy: models.UserIDRef("u1")}
	if f.notes == nil {
		f.notes = map[string][]models.Note{}
	}
	f.notes[tenantID] = append(f.notes[tenantID], n)
	return n, nil
}

func (f *fakeAPI) ListNotes(ctx context.Context, tenantID string) ([]models.Note, error) {
	if f.membersDone != nil {
		<-f.membersDone
		time.Sleep(20 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listNoteCalls++
	if f.noteErr != nil {
		return nil, f.noteErr
	}
	return append([]models.Note(nil), f.notes[tenantID]...), nil
}

func (f *fakeAPI) EditNote(_ context.Context, tenantID, noteID string, in api.NoteInput) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.noteErr != nil {
		return models.Note{}, f.noteErr
	}
	for i, n := range f.notes[tenantID] {
		if n.ID == noteID {
			n.Title, n.Content = in.Title, in.Content
			f.notes[tenantID][i] = n
			return n, nil
		}
	}
	return models.Note{}, &api.APIError{Status: 404, Message: "Note not found"}
}

func (f *fakeAPI) DeleteNote(context.Context, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.noteErr
}

func (f *fakeAPI) ListMembers(context.Context, string) ([]models.Membership, error) {
	if f.membersDone != nil {
		defer close(f.membersDone)
	}
	return f.members, f.membersErr
}

func (f *fakeAPI) AddMember(context.Context, string, string, models.Role) (models.Membership, error) {
	return f.added, f.membersErr
}

func (f *fakeAPI) RemoveMember(context.Context, string, string) error { return f.membersErr }

func (f *fakeAPI) ChangeRole(context.Context, string, string, models.Role) (models.Membership, error) {
	return f.roleChange, f.membersErr
}

/*************
 * Fake credential store
 *************/

type fakeStore struct {
	mu      sync.Mutex
	token   string
	user    *models.User
	saveErr error
}

func (f *fakeStore) Snapshot() session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return session.Session{User: f.user, AccessToken: f.token, IsAuthenticated: f.token != ""}
}

func (f *fakeStore) Save(_ context.Context, token string, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.token = token
	f.user = &user
	return nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.user = nil
	return nil
}

func membership(tenantID, name string, plan models.Plan, role models.Role) models.Membership {
	return models.Membership{
		ID:       "m-" + tenantID,
		UserID:   models.UserIDRef("u1"),
		TenantID: models.TenantRef(models.Tenant{ID: tenantID, Name: name, Plan: plan}),
		Role:     role,
	}
}
