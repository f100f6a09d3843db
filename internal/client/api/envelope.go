package api

import (
	"encoding/json"
	"fmt"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

// envelope is the shape of every backend response body.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// decodeData unwraps the data member of body into out. A nil out discards
// the payload.
func decodeData(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}
	return nil
}

func errorFromBody(status int, body []byte) *APIError {
	var env envelope
	// Non-JSON error pages keep just the status.
	_ = json.Unmarshal(body, &env)
	return &APIError{Status: status, Message: env.Message}
}
