package state

import (
	"context"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type TenantsAPI interface {
	CreateTenant(ctx context.Context, req api.CreateTenantRequest) (models.Tenant, error)
	ListTenantMemberships(ctx context.Context) ([]models.Membership, error)
	DeleteTenant(ctx context.Context, tenantID string) error
	EditSubscription(ctx context.Context, tenantID string, plan models.Plan) (models.Tenant, error)
}

type TenantState struct {
	Tenants []models.Tenant
	Current *models.Tenant
	Status  Status
	Error   string
}

type TenantSlice struct {
	slice
	api TenantsAPI

	tenants []models.Tenant
	current *models.Tenant
}

func NewTenantSlice(tenants TenantsAPI) *TenantSlice {
	return &TenantSlice{slice: slice{status: StatusIdle}, api: tenants}
}

func (s *TenantSlice) State() TenantState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TenantState{
		Tenants: append([]models.Tenant(nil), s.tenants...),
		Current: copyTenant(s.current),
		Status:  s.status,
		Error:   s.err,
	}
}

// Current returns a copy of the selected tenant, or nil.
func (s *TenantSlice) Current() *models.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTenant(s.current)
}

// SetCurrent selects t; nil clears the selection.
func (s *TenantSlice) SetCurrent(t *models.Tenant) {
	s.mu.Lock()
	s.current = copyTenant(t)
	s.mu.Unlock()
}

// Create adds the new tenant to the list and selects it.
func (s *TenantSlice) Create(ctx context.Context, req api.CreateTenantRequest) Result[models.Tenant] {
	s.begin()
	t, err := s.api.CreateTenant(ctx, req)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[models.Tenant](err, msg)
	}

	s.mu.Lock()
	s.tenants = append(s.tenants, t)
	s.current = copyTenant(&t)
	s.succeedLocked()
	s.mu.Unlock()
	return ok(t)
}

// FetchAll replaces the list from the caller's memberships. The first tenant
// is selected when nothing is, or when the selected one is gone; a selected
// tenant still present is refreshed.
func (s *TenantSlice) FetchAll(ctx context.Context) Result[[]models.Tenant] {
	s.begin()
	ms, err := s.api.ListTenantMemberships(ctx)
	var tenants []models.Tenant
	if err == nil {
		tenants, err = models.TenantsFromMemberships(ms)
	}
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[[]models.Tenant](err, msg)
	}

	s.mu.Lock()
	s.tenants = tenants
	i := -1
	if s.current != nil {
		i = indexTenant(tenants, s.current.ID)
	}
	switch {
	case i >= 0:
		s.current = copyTenant(&tenants[i])
	case len(tenants) > 0:
		s.current = copyTenant(&tenants[0])
	default:
		s.current = nil
	}
	s.succeedLocked()
	s.mu.Unlock()
	return ok(append([]models.Tenant(nil), tenants...))
}

// Delete removes the tenant; deleting the selected one selects the first
// remaining tenant, if any.
func (s *TenantSlice) Delete(ctx context.Context, tenantID string) Result[string] {
	s.begin()
	if err := s.api.DeleteTenant(ctx, tenantID); err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[string](err, msg)
	}

	s.mu.Lock()
	kept := s.tenants[:0:0]
	for _, t := range s.tenants {
		if t.ID != tenantID {
			kept = append(kept, t)
		}
	}
	s.tenants = kept
	if s.current != nil && s.current.ID == tenantID {
		s.current = nil
		if len(kept) > 0 {
			s.current = copyTenant(&kept[0])
		}
	}
	s.succeedLocked()
	s.mu.Unlock()
	return ok(tenantID)
}

// EditSubscription replaces the tenant in the list and, when selected, the
// selection. The caller's role is kept if the response omits it.
func (s *TenantSlice) EditSubscription(ctx context.Context, tenantID string, plan models.Plan) Result[models.Tenant] {
	s.begin()
	t, err := s.api.EditSubscription(ctx, tenantID, plan)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[models.Tenant](err, msg)
	}

	s.mu.Lock()
	if i := indexTenant(s.tenants, t.ID); i >= 0 {
		if t.UserRole == "" {
			t.UserRole = s.tenants[i].UserRole
		}
		s.tenants[i] = t
	}
	if s.current != nil && s.current.ID == t.ID {
		if t.UserRole == "" {
			t.UserRole = s.current.UserRole
		}
		s.current = copyTenant(&t)
	}
	s.succeedLocked()
	s.mu.Unlock()
	return ok(t)
}

func (s *TenantSlice) Reset() {
	s.mu.Lock()
	s.tenants = nil
	s.current = nil
	s.resetLocked()
	s.mu.Unlock()
}

func indexTenant(ts []models.Tenant, id string) int {
	for i, t := range ts {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func copyTenant(t *models.Tenant) *models.Tenant {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
