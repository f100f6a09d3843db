package state

import (
	"context"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type MembersAPI interface {
	ListMembers(ctx context.Context, tenantID string) ([]models.Membership, error)
	AddMember(ctx context.Context, tenantID, userID string, role models.Role) (models.Membership, error)
	RemoveMember(ctx context.Context, tenantID, userID string) error
	ChangeRole(ctx context.Context, tenantID, userID string, role models.Role) (models.Membership, error)
}

type MembershipState struct {
	Memberships []models.Membership
	Status      Status
	Error       string
}

type MembershipSlice struct {
	slice
	api         MembersAPI
	memberships []models.Membership
}

func NewMembershipSlice(members MembersAPI) *MembershipSlice {
	return &MembershipSlice{slice: slice{status: StatusIdle}, api: members}
}

func (s *MembershipSlice) State() MembershipState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MembershipState{
		Memberships: append([]models.Membership(nil), s.memberships...),
		Status:      s.status,
		Error:       s.err,
	}
}

func (s *MembershipSlice) FetchAll(ctx context.Context, tenantID string) Result[[]models.Membership] {
	s.begin()
	ms, err := s.api.ListMembers(ctx, tenantID)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[[]models.Membership](err, msg)
	}

	s.mu.Lock()
	s.memberships = ms
	s.succeedLocked()
	s.mu.Unlock()
	return ok(append([]models.Membership(nil), ms...))
}

// Add invites userID, which may be an id or an email address.
func (s *MembershipSlice) Add(ctx context.Context, tenantID, userID string, role models.Role) Result[models.Membership] {
	s.begin()
	m, err := s.api.AddMember(ctx, tenantID, userID, role)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[models.Membership](err, msg)
	}

	s.mu.Lock()
	s.memberships = append(s.memberships, m)
	s.succeedLocked()
	s.mu.Unlock()
	return ok(m)
}

func (s *MembershipSlice) Remove(ctx context.Context, tenantID, userID string) Result[string] {
	s.begin()
	if err := s.api.RemoveMember(ctx, tenantID, userID); err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[string](err, msg)
	}

	s.mu.Lock()
	kept := s.memberships[:0:0]
	for _, m := range s.memberships {
		if m.UserID.ID != userID {
			kept = append(kept, m)
		}
	}
	s.memberships = kept
	s.succeedLocked()
	s.mu.Unlock()
	return ok(userID)
}

func (s *MembershipSlice) ChangeRole(ctx context.Context, tenantID, userID string, role models.Role) Result[models.Membership] {
	s.begin()
	m, err := s.api.ChangeRole(ctx, tenantID, userID, role)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[models.Membership](err, msg)
	}

	s.mu.Lock()
	for i := range s.memberships {
		if s.memberships[i].ID == m.ID {
			// Keep the embedded user when the response only carries its id.
			if !m.UserID.Embedded() && s.memberships[i].UserID.ID == m.UserID.ID {
				m.UserID = s.memberships[i].UserID
			}
			s.memberships[i] = m
			break
		}
	}
	s.succeedLocked()
	s.mu.Unlock()
	return ok(m)
}

// Clear empties the list when the workspace changes.
func (s *MembershipSlice) Clear() { s.Reset() }

func (s *MembershipSlice) Reset() {
	s.mu.Lock()
	s.memberships = nil
	s.resetLocked()
	s.mu.Unlock()
}
