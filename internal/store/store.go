// Package store persists contacts in a single relational table. Every operation is one
// prepared statement, so the database engine provides all the atomicity that is needed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// ErrNotFound is returned by Get when no contact has the requested id. Mutations never return
// it: touching an absent id affects zero rows and counts as success.
var ErrNotFound = errors.New("contact not found")

const columns = `id, firstname, lastname, countrycode, contactnumber, dob, email, picture, deleted`

// Store is a handle to the contacts table.
type Store struct {
	db *sqlx.DB

	// insert is a prepared statement for creating a contact on the database.
	insert *sqlx.NamedStmt

	// selectWhereId is a prepared statement for selecting the contact with a given id.
	selectWhereId *sqlx.Stmt

	// selectWhereDeleted is a prepared statement for selecting one partition of the table.
	selectWhereDeleted *sqlx.Stmt

	// update is a prepared statement that overwrites all mutable fields of a contact.
	update *sqlx.NamedStmt

	// setDeleted is a prepared statement that moves a contact between the two partitions.
	setDeleted *sqlx.Stmt

	// deleteWhereId is a prepared statement for removing a contact with a given id.
	deleteWhereId *sqlx.Stmt
}

// New wraps the specified sql database and prepares all statements. The database argument can
// be a real database for production use or a mock database within unit tests. The contacts
// table must exist already, see Migrate.
func New(sqlDB *sql.DB, driverName string) (*Store, error) {
	bindName, err := bindDriverName(driverName)
	if err != nil {
		return nil, err
	}
	s := &Store{db: sqlx.NewDb(sqlDB, bindName)}

	if s.insert, err = s.db.PrepareNamed(`
		INSERT INTO contacts (firstname, lastname, countrycode, contactnumber, dob, email, picture, deleted)
		VALUES (:firstname, :lastname, :countrycode, :contactnumber, :dob, :email, :picture, 0)
	`); err != nil {
		return nil, s.prepareFailed("insert", err)
	}
	if s.selectWhereId, err = s.db.Preparex(`
		SELECT ` + columns + ` FROM contacts WHERE id = ?
	`); err != nil {
		return nil, s.prepareFailed("select by id", err)
	}
	if s.selectWhereDeleted, err = s.db.Preparex(`
		SELECT ` + columns + ` FROM contacts WHERE deleted = ?
	`); err != nil {
		return nil, s.prepareFailed("select by status", err)
	}
	if s.update, err = s.db.PrepareNamed(`
		UPDATE contacts
		SET firstname = :firstname, lastname = :lastname, countrycode = :countrycode,
			contactnumber = :contactnumber, dob = :dob, email = :email, picture = :picture
		WHERE id = :id
	`); err != nil {
		return nil, s.prepareFailed("update", err)
	}
	if s.setDeleted, err = s.db.Preparex(`
		UPDATE contacts SET deleted = ? WHERE id = ?
	`); err != nil {
		return nil, s.prepareFailed("set deleted", err)
	}
	if s.deleteWhereId, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`); err != nil {
		return nil, s.prepareFailed("delete", err)
	}
	return s, nil
}

func (s *Store) prepareFailed(name string, err error) error {
	s.closeStatements()
	return fmt.Errorf("prepare %s statement: %w", name, err)
}

// Create inserts a new active contact and returns the id the database assigned to it. The
// fields are stored as given.
func (s *Store) Create(ctx context.Context, fields model.Fields) (int64, error) {
	result, err := s.insert.ExecContext(ctx, fields)
	if err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create contact: read id: %w", err)
	}
	return id, nil
}

// Get returns the contact with the given id regardless of its status.
func (s *Store) Get(ctx context.Context, id int64) (model.Contact, error) {
	var contact model.Contact
	err := s.selectWhereId.GetContext(ctx, &contact, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("get contact %d: %w", id, err)
	}
	return contact, nil
}

// ListActive returns all contacts that have not been soft-deleted, in no particular order.
func (s *Store) ListActive(ctx context.Context) ([]model.Contact, error) {
	return s.list(ctx, model.StatusActive)
}

// ListDeleted returns all soft-deleted contacts, in no particular order.
func (s *Store) ListDeleted(ctx context.Context) ([]model.Contact, error) {
	return s.list(ctx, model.StatusDeleted)
}

func (s *Store) list(ctx context.Context, status model.Status) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if err := s.selectWhereDeleted.SelectContext(ctx, &contacts, status); err != nil {
		return nil, fmt.Errorf("list %s contacts: %w", status, err)
	}
	return contacts, nil
}

// Update overwrites all mutable fields of the contact. Fields left empty by the caller are
// stored empty.
func (s *Store) Update(ctx context.Context, id int64, fields model.Fields) error {
	if _, err := s.update.ExecContext(ctx, model.Contact{Id: id, Fields: fields}); err != nil {
		return fmt.Errorf("update contact %d: %w", id, err)
	}
	return nil
}

// SoftDelete moves the contact into the recoverable list.
func (s *Store) SoftDelete(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StatusDeleted)
}

// Recover moves the contact back into the active list.
func (s *Store) Recover(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StatusActive)
}

func (s *Store) setStatus(ctx context.Context, id int64, status model.Status) error {
	if _, err := s.setDeleted.ExecContext(ctx, status, id); err != nil {
		return fmt.Errorf("mark contact %d %s: %w", id, status, err)
	}
	return nil
}

// PermanentDelete removes the contact from the table. This cannot be undone.
func (s *Store) PermanentDelete(ctx context.Context, id int64) error {
	if _, err := s.deleteWhereId.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the prepared statements and the database handle.
func (s *Store) Close() error {
	s.closeStatements()
	return s.db.Close()
}

func (s *Store) closeStatements() {
	for _, stmt := range []*sqlx.NamedStmt{s.insert, s.update} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	for _, stmt := range []*sqlx.Stmt{s.selectWhereId, s.selectWhereDeleted, s.setDeleted, s.deleteWhereId} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}
