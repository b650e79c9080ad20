package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

var contactColumns = []string{
	"id", "firstname", "lastname", "countrycode", "contactnumber", "dob", "email", "picture", "deleted",
}

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// expectPreparedStatements instructs the mock object to expect that all statements are being
// prepared, in the order the store prepares them.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("SELECT (.+) FROM contacts WHERE id = \\?")
	mock.ExpectPrepare("SELECT (.+) FROM contacts WHERE deleted = \\?")
	mock.ExpectPrepare("UPDATE contacts SET firstname")
	mock.ExpectPrepare("UPDATE contacts SET deleted = \\? WHERE id = \\?")
	mock.ExpectPrepare("DELETE FROM contacts WHERE id = \\?")
}

// newMockStore returns a store on top of a mock database whose statements have been prepared.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock := createMockObjects(t)
	t.Cleanup(func() { db.Close() })
	expectPreparedStatements(mock)
	s, err := New(db, DriverMySQL)
	require.NoError(t, err)
	return s, mock
}

func annFields() model.Fields {
	return model.Fields{
		FirstName:     "Ann",
		LastName:      "Lee",
		CountryCode:   "+1",
		ContactNumber: "5551234567",
		Dob:           model.NewDate(1990, 1, 1),
		Email:         "ann@x.com",
	}
}

// TestCreate inserts a contact and expects the id assigned by the database to be returned.
func TestCreate(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Ann", "Lee", "+1", "5551234567", "1990-01-01", "ann@x.com", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := s.Create(context.Background(), annFields())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestCreateWithoutDate expects that a missing date of birth is stored as NULL.
func TestCreateWithoutDate(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("", "", "", "", nil, "", "").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := s.Create(context.Background(), model.Fields{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestCreateFailure expects that a database error is passed on to the caller.
func TestCreateFailure(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnError(errors.New("connection refused"))

	_, err := s.Create(context.Background(), annFields())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestListActive expects that only rows with the deleted flag cleared are requested and that
// they are returned with all fields.
func TestListActive(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	rows := mock.NewRows(contactColumns).
		AddRow(1, "Ann", "Lee", "+1", "5551234567", "1990-01-01", "ann@x.com", "", int64(0)).
		AddRow(2, "Bob", "Ray", "+44", "7000000000", nil, "bob@x.com", "data:image/png;base64,AA==", int64(0))
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE deleted = \\?").
		WithArgs(int64(0)).
		WillReturnRows(rows)

	contacts, err := s.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, model.Contact{Id: 1, Fields: annFields(), Status: model.StatusActive}, contacts[0])
	assert.Equal(t, int64(2), contacts[1].Id)
	assert.True(t, contacts[1].Dob.IsZero())
	assert.Equal(t, "data:image/png;base64,AA==", contacts[1].Picture)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestListDeletedEmpty expects an empty, non-nil slice when nothing has been deleted.
func TestListDeletedEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE deleted = \\?").
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(contactColumns))

	contacts, err := s.ListDeleted(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGet expects a single contact to be returned including its status.
func TestGet(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	rows := mock.NewRows(contactColumns).
		AddRow(29, "Ann", "Lee", "+1", "5551234567", "1990-01-01", "ann@x.com", "", int64(1))
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id = \\?").
		WithArgs(int64(29)).
		WillReturnRows(rows)

	contact, err := s.Get(context.Background(), 29)
	require.NoError(t, err)
	assert.Equal(t, int64(29), contact.Id)
	assert.Equal(t, model.StatusDeleted, contact.Status)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetNotFound expects ErrNotFound for an id without a row.
func TestGetNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id = \\?").
		WithArgs(int64(9999)).
		WillReturnRows(mock.NewRows(contactColumns))

	_, err := s.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestUpdate expects that all mutable fields are written, including the empty ones.
func TestUpdate(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	mock.ExpectExec("UPDATE contacts SET firstname").
		WithArgs("Rudi", "", "", "", nil, "", "", int64(17)).
		WillReturnResult(sqlmock.NewResult(-1, 1))

	err := s.Update(context.Background(), 17, model.Fields{FirstName: "Rudi"})
	assert.NoError(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestMutationsOnMissingId expects that statements affecting no row still report success.
func TestMutationsOnMissingId(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	// Define expectations on SQL statements
	mock.ExpectExec("UPDATE contacts SET deleted = \\? WHERE id = \\?").
		WithArgs(int64(1), int64(9999)).
		WillReturnResult(sqlmock.NewResult(-1, 0))
	mock.ExpectExec("UPDATE contacts SET deleted = \\? WHERE id = \\?").
		WithArgs(int64(0), int64(9999)).
		WillReturnResult(sqlmock.NewResult(-1, 0))
	mock.ExpectExec("UPDATE contacts SET firstname").
		WithArgs("Ann", "Lee", "+1", "5551234567", "1990-01-01", "ann@x.com", "", int64(9999)).
		WillReturnResult(sqlmock.NewResult(-1, 0))
	mock.ExpectExec("DELETE FROM contacts WHERE id = \\?").
		WithArgs(int64(9999)).
		WillReturnResult(sqlmock.NewResult(-1, 0))

	assert.NoError(t, s.SoftDelete(ctx, 9999))
	assert.NoError(t, s.Recover(ctx, 9999))
	assert.NoError(t, s.Update(ctx, 9999, annFields()))
	assert.NoError(t, s.PermanentDelete(ctx, 9999))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSoftDeleteFailure expects that a database error is passed on to the caller.
func TestSoftDeleteFailure(t *testing.T) {
	s, mock := newMockStore(t)

	// Define expectations on SQL statements
	mock.ExpectExec("UPDATE contacts SET deleted = \\? WHERE id = \\?").
		WithArgs(int64(1), int64(3)).
		WillReturnError(errors.New("lock wait timeout exceeded"))

	err := s.SoftDelete(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock wait timeout exceeded")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestNewUnsupportedDriver expects that no statement is prepared for an unknown driver.
func TestNewUnsupportedDriver(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	_, err := New(db, "oracle")
	assert.Error(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestNewPrepareFailure expects that a failing prepare is reported.
func TestNewPrepareFailure(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("SELECT (.+) FROM contacts WHERE id = \\?").
		WillReturnError(errors.New("table contacts doesn't exist"))

	_, err := New(db, DriverMySQL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prepare select by id statement")
}

// TestExecScript expects one Exec per semicolon-terminated statement.
func TestExecScript(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts \\( id INTEGER \\);").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX contacts_deleted ON contacts \\(deleted\\);").
		WillReturnResult(sqlmock.NewResult(0, 0))

	script := "CREATE TABLE IF NOT EXISTS contacts (\n\tid INTEGER\n);\nCREATE INDEX contacts_deleted ON contacts (deleted);\n"
	err := ExecScript(context.Background(), db, strings.NewReader(script))
	assert.NoError(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDataSourceName checks the connection strings built for both drivers.
func TestDataSourceName(t *testing.T) {
	dsn, err := dataSourceName(Options{Driver: DriverMySQL, User: "dirk", Password: "bullo92", Host: "db:3306", Name: "test"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "dirk:bullo92@tcp(db:3306)/test?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")

	dsn, err = dataSourceName(Options{Driver: DriverSQLite, SQLitePath: "/tmp/contacts.db"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "/tmp/contacts.db?"))

	_, err = dataSourceName(Options{Driver: DriverSQLite})
	assert.Error(t, err)

	_, err = dataSourceName(Options{Driver: "postgres"})
	assert.Error(t, err)
}
