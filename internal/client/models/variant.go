package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserField is either an embedded user record or a bare user id.
type UserField struct {
	ID   string
	User *User
}

// UserRef builds an embedded UserField.
func UserRef(u User) UserField {
	return UserField{ID: u.ID, User: &u}
}

// UserIDRef builds a bare-id UserField.
func UserIDRef(id string) UserField {
	return UserField{ID: id}
}

// Embedded reports whether the full user record was sent.
func (f UserField) Embedded() bool { return f.User != nil }

// Display returns the best human label available.
func (f UserField) Display() string {
	if f.User != nil {
		if f.User.Username != "" {
			return f.User.Username
		}
		if f.User.Email != "" {
			return f.User.Email
		}
	}
	return f.ID
}

// UnmarshalJSON accepts an object, a non-empty id string or null (reference
// absent, e.g. the author account was removed).
func (f *UserField) UnmarshalJSON(b []byte) error {
	switch kind(b) {
	case 'n':
		*f = UserField{}
		return nil
	case '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		if id == "" {
			return fmt.Errorf("%w: empty user id", ErrMalformedPayload)
		}
		*f = UserIDRef(id)
		return nil
	case '{':
		var u User
		if err := json.Unmarshal(b, &u); err != nil {
			return err
		}
		if u.ID == "" {
			return fmt.Errorf("%w: embedded user without _id", ErrMalformedPayload)
		}
		*f = UserRef(u)
		return nil
	default:
		return fmt.Errorf("%w: user reference must be an object or id, got %s", ErrMalformedPayload, snippet(b))
	}
}

func (f UserField) MarshalJSON() ([]byte, error) {
	if f.User != nil {
		return json.Marshal(f.User)
	}
	return json.Marshal(f.ID)
}

// TenantField is either an embedded tenant record or a bare tenant id.
type TenantField struct {
	ID     string
	Tenant *Tenant
}

func TenantRef(t Tenant) TenantField {
	return TenantField{ID: t.ID, Tenant: &t}
}

func TenantIDRef(id string) TenantField {
	return TenantField{ID: id}
}

func (f TenantField) Embedded() bool { return f.Tenant != nil }

func (f *TenantField) UnmarshalJSON(b []byte) error {
	switch kind(b) {
	case 'n':
		*f = TenantField{}
		return nil
	case '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		if id == "" {
			return fmt.Errorf("%w: empty tenant id", ErrMalformedPayload)
		}
		*f = TenantIDRef(id)
		return nil
	case '{':
		var t Tenant
		if err := json.Unmarshal(b, &t); err != nil {
			return err
		}
		if t.ID == "" {
			return fmt.Errorf("%w: embedded tenant without _id", ErrMalformedPayload)
		}
		*f = TenantRef(t)
		return nil
	default:
		return fmt.Errorf("%w: tenant reference must be an object or id, got %s", ErrMalformedPayload, snippet(b))
	}
}

func (f TenantField) MarshalJSON() ([]byte, error) {
	if f.Tenant != nil {
		return json.Marshal(f.Tenant)
	}
	return json.Marshal(f.ID)
}

func kind(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func snippet(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) > 32 {
		return string(b[:32]) + "..."
	}
	return string(b)
}
