package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"nameofperson/internal/cast"
	"nameofperson/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: repository over a sqlmock connection
func newMockRepo(t *testing.T, caster *cast.PersonNameCast) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	repo, err := NewWithDB(db, caster)
	require.NoError(t, err)
	return repo, mock, db
}

func TestMockCreateBindsCastColumns(t *testing.T) {
	repo, mock, db := newMockRepo(t, cast.New("given_name", "family_name"))
	defer db.Close()

	person := newPerson(t, "Will", "", "")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO people (id, "given_name", "family_name", email, created_at, updated_at)`)).
		WithArgs(person.ID, "Will", nil, sql.NullString{}, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), person))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockGetScansCastColumns(t *testing.T) {
	repo, mock, db := newMockRepo(t, nil)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "created_at", "updated_at"}).
		AddRow("p1", "Conor", "Muirhead [Basecamp]", nil, int64(0), int64(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, "first_name", "last_name"`)).
		WithArgs("p1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "CM", got.Name.Initials())
	assert.Empty(t, got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockQueryErrorsAreWrapped(t *testing.T) {
	repo, mock, db := newMockRepo(t, nil)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT .* FROM people WHERE id = \?`).WithArgs("p1").WillReturnError(boom)

	_, err := repo.Get(context.Background(), "p1")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to query person")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockUpdateNoRows(t *testing.T) {
	repo, mock, db := newMockRepo(t, nil)
	defer db.Close()

	person := newPerson(t, "Foo", "Bar", "")
	mock.ExpectExec(`UPDATE people SET "first_name" = \?, "last_name" = \?`).
		WithArgs("Foo", "Bar", sql.NullString{}, sqlmock.AnyArg(), person.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), person)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockImportRollsBackOnFailure(t *testing.T) {
	repo, mock, db := newMockRepo(t, nil)
	defer db.Close()

	person := newPerson(t, "Foo", "Bar", "")

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT OR REPLACE INTO people`)
	prep.ExpectExec().WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.ImportPeople(context.Background(), []domain.Person{*person})
	require.Error(t, err)
	assert.Contains(t, err.Error(), person.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
