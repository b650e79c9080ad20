// Package app is the state of the contact client: the form, the two contact lists and the
// contact being edited. Every change goes through one of the methods of App, and every
// mutation on the service is followed by fetching both lists again.
package app

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/contact-manager/internal/form"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// PermanentDeletePrompt is the question passed to the confirm callback before a contact is
// removed for good.
const PermanentDeletePrompt = "Are you sure you want to permanently delete this contact? This cannot be undone."

// ErrNotEditing is returned by Update when no contact has been selected for editing.
var ErrNotEditing = errors.New("no contact is being edited")

// API is the part of the contacts service the client needs. It is implemented by
// *client.Client.
type API interface {
	Create(ctx context.Context, fields model.Fields) (int64, error)
	Get(ctx context.Context, id int64) (model.Contact, error)
	ListActive(ctx context.Context) ([]model.Contact, error)
	ListDeleted(ctx context.Context) ([]model.Contact, error)
	Update(ctx context.Context, id int64, fields model.Fields) error
	SoftDelete(ctx context.Context, id int64) error
	Recover(ctx context.Context, id int64) error
	PermanentDelete(ctx context.Context, id int64) error
}

// App holds the client state.
type App struct {
	api     API
	confirm func(prompt string) bool

	form      *form.Form
	active    []model.Contact
	deleted   []model.Contact
	sortKey   SortKey
	editingID int64
	editing   bool
}

// New returns an App with an empty form and empty lists; call Refresh to load the lists. The
// confirm callback guards permanent deletion; nil confirms everything.
func New(api API, profile form.Profile, confirm func(prompt string) bool) *App {
	a := &App{
		api:     api,
		form:    form.New(profile),
		active:  []model.Contact{},
		deleted: []model.Contact{},
		sortKey: SortByFirstName,
	}
	a.SetConfirm(confirm)
	return a
}

// SetConfirm replaces the callback that guards permanent deletion. nil confirms everything.
func (a *App) SetConfirm(confirm func(prompt string) bool) {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	a.confirm = confirm
}

// Form returns the contact form. Its values are changed with Form.Set and Form.SetPicture.
func (a *App) Form() *form.Form {
	return a.form
}

// Active returns the active contacts in the order of the current sort key.
func (a *App) Active() []model.Contact {
	return Sort(a.active, a.sortKey)
}

// Deleted returns the soft-deleted contacts in the order the service delivered them.
func (a *App) Deleted() []model.Contact {
	return a.deleted
}

// SortKey returns the current sort key.
func (a *App) SortKey() SortKey {
	return a.sortKey
}

// SetSortKey changes the order of Active.
func (a *App) SetSortKey(key SortKey) {
	a.sortKey = key
}

// Editing returns the id of the contact that is being edited.
func (a *App) Editing() (int64, bool) {
	return a.editingID, a.editing
}

// Refresh fetches both lists from the service.
func (a *App) Refresh(ctx context.Context) error {
	active, err := a.api.ListActive(ctx)
	if err != nil {
		return err
	}
	deleted, err := a.api.ListDeleted(ctx)
	if err != nil {
		return err
	}
	a.active, a.deleted = active, deleted
	return nil
}

// Save validates the form and creates a new contact from it. On success the form is cleared.
func (a *App) Save(ctx context.Context) (int64, error) {
	fields, err := a.form.Fields()
	if err != nil {
		return 0, err
	}
	id, err := a.api.Create(ctx, fields)
	if err != nil {
		return 0, err
	}
	a.form.Reset()
	return id, a.Refresh(ctx)
}

// Edit loads the contact into the form and remembers it as the one to update.
func (a *App) Edit(contact model.Contact) {
	a.form.Load(contact)
	a.editingID, a.editing = contact.Id, true
}

// EditByID fetches the contact from the service and calls Edit with it.
func (a *App) EditByID(ctx context.Context, id int64) error {
	contact, err := a.api.Get(ctx, id)
	if err != nil {
		return err
	}
	a.Edit(contact)
	return nil
}

// CancelEdit forgets the contact being edited and clears the form.
func (a *App) CancelEdit() {
	a.editingID, a.editing = 0, false
	a.form.Reset()
}

// Update validates the form and overwrites the contact being edited with it. On success the
// form is cleared and editing ends.
func (a *App) Update(ctx context.Context) error {
	if !a.editing {
		return ErrNotEditing
	}
	fields, err := a.form.Fields()
	if err != nil {
		return err
	}
	if err := a.api.Update(ctx, a.editingID, fields); err != nil {
		return err
	}
	a.CancelEdit()
	return a.Refresh(ctx)
}

// SoftDelete moves the contact to the deleted list.
func (a *App) SoftDelete(ctx context.Context, id int64) error {
	if err := a.api.SoftDelete(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// Recover moves the contact back to the active list.
func (a *App) Recover(ctx context.Context, id int64) error {
	if err := a.api.Recover(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// PermanentDelete removes the contact for good after the confirm callback agreed. It reports
// whether the contact was deleted.
func (a *App) PermanentDelete(ctx context.Context, id int64) (bool, error) {
	if !a.confirm(PermanentDeletePrompt) {
		return false, nil
	}
	if err := a.api.PermanentDelete(ctx, id); err != nil {
		return false, err
	}
	return true, a.Refresh(ctx)
}
