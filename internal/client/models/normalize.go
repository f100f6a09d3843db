package models

import (
	"encoding/json"
	"fmt"
)

// FreePlanNoteLimit is how many notes one user may author in a free tenant.
// The server enforces it; the client only uses it to disable note creation.
const FreePlanNoteLimit = 3

// TenantsFromMemberships flattens the tenant list endpoint payload (one
// membership per tenant, tenant embedded) into tenants annotated with the
// caller's role. Order is preserved and the mapping is one-to-one.
func TenantsFromMemberships(ms []Membership) ([]Tenant, error) {
	tenants := make([]Tenant, 0, len(ms))
	for i, m := range ms {
		t, err := tenantFromMembership(m)
		if err != nil {
			return nil, fmt.Errorf("membership %d: %w", i, err)
		}
		tenants = append(tenants, t)
	}
	return tenants, nil
}

func tenantFromMembership(m Membership) (Tenant, error) {
	if !m.TenantID.Embedded() {
		return Tenant{}, fmt.Errorf("%w: tenant %q is not embedded", ErrMalformedPayload, m.TenantID.ID)
	}
	if !m.Role.Valid() {
		return Tenant{}, fmt.Errorf("%w: unknown role %q", ErrMalformedPayload, m.Role)
	}
	t := *m.TenantID.Tenant
	t.UserRole = m.Role
	return t, nil
}

// createPayload covers both shapes the create-tenant endpoint may answer
// with: the tenant itself, or the creator's membership embedding it.
type createPayload struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Plan     Plan            `json:"plan"`
	UserRole Role            `json:"userRole"`
	Role     Role            `json:"role"`
	TenantID json.RawMessage `json:"tenantId"`
}

// TenantFromCreate normalizes the create-tenant response. The creator is an
// admin unless the payload says otherwise.
func TenantFromCreate(raw json.RawMessage) (Tenant, error) {
	var p createPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Tenant{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	role := RoleAdmin
	switch {
	case p.UserRole != "":
		role = p.UserRole
	case p.Role != "":
		role = p.Role
	}
	if !role.Valid() {
		return Tenant{}, fmt.Errorf("%w: unknown role %q", ErrMalformedPayload, role)
	}

	if len(p.TenantID) > 0 {
		var f TenantField
		if err := json.Unmarshal(p.TenantID, &f); err != nil {
			return Tenant{}, err
		}
		return tenantFromMembership(Membership{ID: p.ID, TenantID: f, Role: role})
	}

	if p.ID == "" {
		return Tenant{}, fmt.Errorf("%w: tenant without _id", ErrMalformedPayload)
	}
	return Tenant{ID: p.ID, Name: p.Name, Plan: p.Plan, UserRole: role}, nil
}

// NotesAuthoredBy counts the notes whose author is userID.
func NotesAuthoredBy(notes []Note, userID string) int {
	n := 0
	for _, note := range notes {
		if userID != "" && note.CreatedBy.ID == userID {
			n++
		}
	}
	return n
}

// CanCreateNote is the advisory free-plan check: on a free tenant a user may
// author at most FreePlanNoteLimit notes. Pro tenants are unlimited.
func CanCreateNote(t Tenant, notes []Note, userID string) bool {
	if t.Plan != PlanFree {
		return true
	}
	return NotesAuthoredBy(notes, userID) < FreePlanNoteLimit
}
