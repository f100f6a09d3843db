package api

import (
	"context"
	"net/http"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *Client) CreateNote(ctx context.Context, tenantID string, in NoteInput) (models.Note, error) {
	var n models.Note
	if err := c.Do(ctx, http.MethodPost, pathf("/notes/create", tenantID), in, &n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

func (c *Client) ListNotes(ctx context.Context, tenantID string) ([]models.Note, error) {
	var ns []models.Note
	if err := c.Do(ctx, http.MethodGet, pathf("/notes/get-all", tenantID), nil, &ns); err != nil {
		return nil, err
	}
	return ns, nil
}

func (c *Client) EditNote(ctx context.Context, tenantID, noteID string, in NoteInput) (models.Note, error) {
	var n models.Note
	if err := c.Do(ctx, http.MethodPatch, pathf("/notes/edit", tenantID, noteID), in, &n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

func (c *Client) DeleteNote(ctx context.Context, tenantID, noteID string) error {
	return c.Do(ctx, http.MethodDelete, pathf("/notes/delete", tenantID, noteID), nil, nil)
}
