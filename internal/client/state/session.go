package state

import (
	"context"
	"errors"
	"net/http"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/session"
)

type UsersAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) error
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResult, error)
}

// CredentialStore persists the signed-in user and access token.
type CredentialStore interface {
	Snapshot() session.Session
	Save(ctx context.Context, token string, user models.User) error
	Clear(ctx context.Context) error
}

type SessionState struct {
	User                *models.User
	IsAuthenticated     bool
	RegistrationSuccess bool
	Status              Status
	Error               string
}

type SessionSlice struct {
	slice
	api   UsersAPI
	store CredentialStore

	user                *models.User
	authenticated       bool
	registrationSuccess bool
}

// NewSessionSlice starts from whatever the credential store holds.
func NewSessionSlice(users UsersAPI, store CredentialStore) *SessionSlice {
	s := &SessionSlice{slice: slice{status: StatusIdle}, api: users, store: store}
	s.Reload()
	return s
}

func (s *SessionSlice) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var u *models.User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return SessionState{
		User:                u,
		IsAuthenticated:     s.authenticated,
		RegistrationSuccess: s.registrationSuccess,
		Status:              s.status,
		Error:               s.err,
	}
}

// Reload re-reads user and authentication from the credential store.
func (s *SessionSlice) Reload() {
	snap := s.store.Snapshot()
	s.mu.Lock()
	s.user = snap.User
	s.authenticated = snap.IsAuthenticated
	s.mu.Unlock()
}

func (s *SessionSlice) Register(ctx context.Context, req api.RegisterRequest) Result[struct{}] {
	s.begin()
	s.mu.Lock()
	s.registrationSuccess = false
	s.mu.Unlock()

	if err := s.api.Register(ctx, req); err != nil {
		msg := registerMessage(err)
		s.fail(msg)
		return failed[struct{}](err, msg)
	}

	s.mu.Lock()
	s.registrationSuccess = true
	s.succeedLocked()
	s.mu.Unlock()
	return ok(struct{}{})
}

func (s *SessionSlice) Login(ctx context.Context, req api.LoginRequest) Result[models.User] {
	s.begin()

	res, err := s.api.Login(ctx, req)
	if err == nil {
		err = s.store.Save(ctx, res.AccessToken, res.User)
	}
	if err != nil {
		msg := loginMessage(err)
		s.fail(msg)
		return failed[models.User](err, msg)
	}

	s.mu.Lock()
	u := res.User
	s.user = &u
	s.authenticated = true
	s.succeedLocked()
	s.mu.Unlock()
	return ok(res.User)
}

// Logout forgets the user locally and clears the stored credentials.
func (s *SessionSlice) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

func (s *SessionSlice) ResetRegistration() {
	s.mu.Lock()
	s.registrationSuccess = false
	s.err = ""
	s.mu.Unlock()
}

const networkMessage = "Network error. Please check your connection."

func loginMessage(err error) string {
	const fallback = "Login failed. Please try again."
	switch api.StatusOf(err) {
	case 0:
		if errors.Is(err, api.ErrUnavailable) {
			return networkMessage
		}
		return fallback
	case http.StatusBadRequest:
		return "Please provide username and password."
	case http.StatusUnauthorized:
		return "Invalid username or password."
	case http.StatusNotFound:
		return "Email not found."
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	}
	return orDefault(serverMessage(err), fallback)
}

func registerMessage(err error) string {
	const fallback = "Registration failed. Please try again."
	switch api.StatusOf(err) {
	case 0:
		if errors.Is(err, api.ErrUnavailable) {
			return networkMessage
		}
		return fallback
	case http.StatusBadRequest:
		return orDefault(serverMessage(err), "Invalid input. Please check your details.")
	case http.StatusConflict:
		return "Username or email already exists."
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	}
	return orDefault(serverMessage(err), fallback)
}

// serverMessage is the backend's message carried by err, if any.
func serverMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
