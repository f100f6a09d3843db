// Package models defines the client-side view of CollabNotes entities.
//
// All values are copies of server records. References that the API may send
// either embedded or as a bare id (note author, membership user and tenant)
// are modelled as explicit variants (UserField, TenantField) that reject any
// other shape.
package models

import (
	"errors"
	"time"
)

// ErrMalformedPayload is returned when a server payload does not match any
// shape the client understands.
var ErrMalformedPayload = errors.New("malformed payload")

// Plan is the subscription tier of a tenant.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro
}

// Role is a user's role inside one tenant.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User is the cached snapshot of the signed-in user.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Tenant is a workspace as seen by the current user. UserRole is not a
// property of the tenant itself; it is derived from the membership list.
type Tenant struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Plan     Plan   `json:"plan"`
	UserRole Role   `json:"userRole,omitempty"`
}

// IsAdmin reports whether the current user administers t.
func (t Tenant) IsAdmin() bool {
	return t.UserRole == RoleAdmin
}

// Membership joins a user to a tenant with a role.
type Membership struct {
	ID       string      `json:"_id"`
	UserID   UserField   `json:"userId"`
	TenantID TenantField `json:"tenantId"`
	Role     Role        `json:"role"`
}

// Note belongs to exactly one tenant.
type Note struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedBy UserField `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}
