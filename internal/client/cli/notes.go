package cli

import (
	"context"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/router"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/validation"
)

// Notes refetches and lists the notes of the current workspace.
func (a *App) Notes(ctx context.Context, _ []string) error {
	if !a.enter(router.Notes) {
		return nil
	}
	cur := a.store.Tenants.Current()
	res := a.store.Notes.FetchAll(ctx, cur.ID)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.printf("%s · %s plan\n\n", cur.Name, planLabel(cur.Plan))
	renderNotes(a.out, res.Value)
	if !a.store.CanCreateNote() {
		a.printUpgradeNotice()
	}
	return nil
}

// AddNote prompts for a title and content and creates the note.
func (a *App) AddNote(ctx context.Context, _ []string) error {
	if !a.enter(router.Notes) {
		return nil
	}
	if !a.store.CanCreateNote() {
		a.printUpgradeNotice()
		return nil
	}
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	form := validation.NoteForm{Title: title, Content: content}
	if err := a.validate.Struct(form); err != nil {
		return a.formError(err)
	}
	res := a.store.AddNote(ctx, api.NoteInput{Title: form.Title, Content: form.Content})
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.printf("Note %q created.\n", res.Value.Title)
	return nil
}

// EditNote edits note n. Empty answers keep the current title or content.
func (a *App) EditNote(ctx context.Context, args []string) error {
	if !a.enter(router.Notes) {
		return nil
	}
	note, err := a.pickNote(args)
	if err != nil {
		return err
	}

	title, err := GetSimpleText(a.reader, "Title ["+note.Title+"]", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = note.Title
	}
	if content == "" {
		content = note.Content
	}

	form := validation.NoteForm{Title: title, Content: content}
	if err := a.validate.Struct(form); err != nil {
		return a.formError(err)
	}
	res := a.store.UpdateNote(ctx, note.ID, api.NoteInput{Title: form.Title, Content: form.Content})
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.println("Note updated.")
	return nil
}

// DeleteNote deletes note n after confirmation.
func (a *App) DeleteNote(ctx context.Context, args []string) error {
	if !a.enter(router.Notes) {
		return nil
	}
	note, err := a.pickNote(args)
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, "Are you sure you want to delete this note?", a.out)
	if err != nil || !ok {
		return err
	}

	res := a.store.Notes.Delete(ctx, a.store.Tenants.Current().ID, note.ID)
	if !res.OK() {
		a.println(res.Message)
		return nil
	}
	a.printf("Note %q deleted.\n", note.Title)
	return nil
}

func (a *App) pickNote(args []string) (models.Note, error) {
	notes := a.store.Notes.State().Notes
	i, err := pickIndex(args, len(notes), "note")
	if err != nil {
		return models.Note{}, err
	}
	return notes[i], nil
}

func (a *App) printUpgradeNotice() {
	a.printf("You've reached the free plan limit of %d notes\n", models.FreePlanNoteLimit)
	a.println("Upgrade to Pro for unlimited notes and additional features ('upgrade').")
}
