package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PostgresCollection[widget], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresCollection[widget](db, "widgets"), mock
}

type anyArg struct{}

func (anyArg) Match(driver.Value) bool { return true }

func TestPostgresCollection_Insert(t *testing.T) {
	s, mock := newMock(t)
	w := widget{ID: newID(), Name: "alpha"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)`)).
		WithArgs("widgets", w.ID, anyArg{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO unique_values (collection, field, value, doc_id) VALUES ($1, $2, $3, $4)`)).
		WithArgs("widgets", "name", "alpha", w.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Insert(context.Background(), &w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCollection_InsertDuplicate(t *testing.T) {
	s, mock := newMock(t)
	w := widget{ID: newID(), Name: "alpha"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO unique_values`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "unique_values_pkey"})
	mock.ExpectRollback()

	err := s.Insert(context.Background(), &w)
	assert.ErrorIs(t, err, pkgerror.ErrDuplicateValue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCollection_Get(t *testing.T) {
	s, mock := newMock(t)
	id := newID()

	_, err := s.Get(context.Background(), "5d713995b721c3bb38c1f5d0")
	assert.ErrorIs(t, err, pkgerror.ErrIdentifierFormat, "malformed ids never reach the database")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("widgets", id).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"id":"` + id + `","name":"alpha","cost":12.5}`)))

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
	assert.Equal(t, 12.5, got.Cost)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents`)).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	_, err = s.Get(context.Background(), id)
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents`)).
		WillReturnError(&pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid"})
	_, err = s.Get(context.Background(), id)
	assert.ErrorIs(t, err, pkgerror.ErrIdentifierFormat)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCollection_Find(t *testing.T) {
	s, mock := newMock(t)
	owner := newID()
	q := Eq("bootcamp", owner)
	q.Sort = []SortField{{Field: "createdAt", Desc: true}}
	q.Limit = 25

	where := `collection = $1 AND (body #>> '{bootcamp}' = $2 OR body #> '{bootcamp}' @> $3::jsonb)`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM documents WHERE `+where)).
		WithArgs("widgets", owner, `["`+owner+`"]`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE `+where+` ORDER BY body #> '{createdAt}' DESC NULLS LAST, seq LIMIT $4`)).
		WithArgs("widgets", owner, `["`+owner+`"]`, 25).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"name":"a"}`)).
			AddRow([]byte(`{"name":"b"}`)))

	items, total, err := s.Find(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCollection_FindRange(t *testing.T) {
	s, mock := newMock(t)
	q := Query{
		Conditions: []Condition{{Field: "location.state", Op: OpIn, Values: []string{"MA", "NY"}}, {Field: "cost", Op: OpGt, Values: []string{"100"}}},
		Offset:     10,
	}

	where := `collection = $1 AND (body #>> '{location,state}' = ANY($2) OR body #> '{location,state}' ?| $2) AND (body #>> '{cost}')::numeric > $3`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM documents WHERE ` + where)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE ` + where + ` ORDER BY seq OFFSET $4`)).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	items, total, err := s.Find(context.Background(), q)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCollection_Delete(t *testing.T) {
	s, mock := newMock(t)
	id := newID()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("widgets", id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(context.Background(), id), pkgerror.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1 AND (body #>> '{bootcamp}' = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := s.DeleteMany(context.Background(), Eq("bootcamp", id))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCollection_UpdateMissing(t *testing.T) {
	s, mock := newMock(t)
	w := widget{ID: newID(), Name: "alpha"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET body = $3 WHERE collection = $1 AND id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, s.Update(context.Background(), &w), pkgerror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS documents`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
