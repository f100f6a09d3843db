package api

import (
	"context"
	"net/http"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type memberRequest struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role,omitempty"`
}

func (c *Client) ListMembers(ctx context.Context, tenantID string) ([]models.Membership, error) {
	var ms []models.Membership
	if err := c.Do(ctx, http.MethodGet, pathf("/tenant-membership", tenantID), nil, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// AddMember adds userID (an id or email, resolved by the server) with role.
func (c *Client) AddMember(ctx context.Context, tenantID, userID string, role models.Role) (models.Membership, error) {
	var m models.Membership
	req := memberRequest{UserID: userID, Role: role}
	if err := c.Do(ctx, http.MethodPost, pathf("/tenant-membership", tenantID), req, &m); err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

func (c *Client) RemoveMember(ctx context.Context, tenantID, userID string) error {
	return c.Do(ctx, http.MethodDelete, pathf("/tenant-membership", tenantID), memberRequest{UserID: userID}, nil)
}

func (c *Client) ChangeRole(ctx context.Context, tenantID, userID string, role models.Role) (models.Membership, error) {
	var m models.Membership
	req := memberRequest{UserID: userID, Role: role}
	if err := c.Do(ctx, http.MethodPut, pathf("/tenant-membership/role", tenantID), req, &m); err != nil {
		return models.Membership{}, err
	}
	return m, nil
}
