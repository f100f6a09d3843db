package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type CreateTenantRequest struct {
	Name string      `json:"name"`
	Plan models.Plan `json:"plan,omitempty"`
}

// CreateTenant creates a workspace owned by the caller.
func (c *Client) CreateTenant(ctx context.Context, req CreateTenantRequest) (models.Tenant, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, "/tenants/create", req, &raw); err != nil {
		return models.Tenant{}, err
	}
	return models.TenantFromCreate(raw)
}

// ListTenantMemberships returns the caller's memberships with the tenant of
// each embedded.
func (c *Client) ListTenantMemberships(ctx context.Context) ([]models.Membership, error) {
	var ms []models.Membership
	if err := c.Do(ctx, http.MethodGet, "/tenants/get-all", nil, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func (c *Client) DeleteTenant(ctx context.Context, tenantID string) error {
	return c.Do(ctx, http.MethodDelete, pathf("/tenants/delete", tenantID), nil, nil)
}

func (c *Client) EditSubscription(ctx context.Context, tenantID string, plan models.Plan) (models.Tenant, error) {
	var t models.Tenant
	body := struct {
		Plan models.Plan `json:"plan"`
	}{plan}
	if err := c.Do(ctx, http.MethodPatch, pathf("/tenants/edit/subscription", tenantID), body, &t); err != nil {
		return models.Tenant{}, err
	}
	return t, nil
}
