package state

import (
	"context"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type NotesAPI interface {
	CreateNote(ctx context.Context, tenantID string, in api.NoteInput) (models.Note, error)
	ListNotes(ctx context.Context, tenantID string) ([]models.Note, error)
	EditNote(ctx context.Context, tenantID, noteID string, in api.NoteInput) (models.Note, error)
	DeleteNote(ctx context.Context, tenantID, noteID string) error
}

type NoteState struct {
	Notes  []models.Note
	Status Status
	Error  string
}

type NoteSlice struct {
	slice
	api   NotesAPI
	notes []models.Note
}

func NewNoteSlice(notes NotesAPI) *NoteSlice {
	return &NoteSlice{slice: slice{status: StatusIdle}, api: notes}
}

func (s *NoteSlice) State() NoteState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NoteState{
		Notes:  append([]models.Note(nil), s.notes...),
		Status: s.status,
		Error:  s.err,
	}
}

func (s *NoteSlice) Create(ctx context.Context, tenantID string, in api.NoteInput) Result[models.Note] {
	s.begin()
	n, err := s.api.CreateNote(ctx, tenantID, in)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[models.Note](err, msg)
	}

	s.mu.Lock()
	s.notes = append(s.notes, n)
	s.succeedLocked()
	s.mu.Unlock()
	return ok(n)
}

func (s *NoteSlice) FetchAll(ctx context.Context, tenantID string) Result[[]models.Note] {
	s.begin()
	notes, err := s.api.ListNotes(ctx, tenantID)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[[]models.Note](err, msg)
	}

	s.mu.Lock()
	s.notes = notes
	s.succeedLocked()
	s.mu.Unlock()
	return ok(append([]models.Note(nil), notes...))
}

func (s *NoteSlice) Edit(ctx context.Context, tenantID, noteID string, in api.NoteInput) Result[models.Note] {
	s.begin()
	n, err := s.api.EditNote(ctx, tenantID, noteID, in)
	if err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[models.Note](err, msg)
	}

	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			s.notes[i] = n
			break
		}
	}
	s.succeedLocked()
	s.mu.Unlock()
	return ok(n)
}

func (s *NoteSlice) Delete(ctx context.Context, tenantID, noteID string) Result[string] {
	s.begin()
	if err := s.api.DeleteNote(ctx, tenantID, noteID); err != nil {
		msg := messageOf(err)
		s.fail(msg)
		return failed[string](err, msg)
	}

	s.mu.Lock()
	kept := s.notes[:0:0]
	for _, n := range s.notes {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	s.notes = kept
	s.succeedLocked()
	s.mu.Unlock()
	return ok(noteID)
}

// Clear empties the list when the workspace changes.
func (s *NoteSlice) Clear() { s.Reset() }

func (s *NoteSlice) Reset() {
	s.mu.Lock()
	s.notes = nil
	s.resetLocked()
	s.mu.Unlock()
}
