package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/database"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/testhelpers"
)

func newTestQuerier(t *testing.T) (*database.Querier, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	q := database.NewQuerierWithRetry(db, testhelpers.NewTestLogger(), 3, time.Millisecond)
	return q, mock
}

func TestQuerierSelectRetriesTransientFailure(t *testing.T) {
	q, mock := newTestQuerier(t)

	mock.ExpectQuery("SELECT provider").WillReturnError(errors.New("connection refused"))
	mock.ExpectQuery("SELECT provider").WillReturnRows(
		sqlmock.NewRows([]string{"provider"}).AddRow("azure").AddRow("aws"),
	)

	var providers []string
	err := q.Select(context.Background(), &providers, "SELECT provider FROM icons")
	require.NoError(t, err)
	assert.Equal(t, []string{"azure", "aws"}, providers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerierSelectExhaustsRetries(t *testing.T) {
	q, mock := newTestQuerier(t)

	for i := 0; i < 3; i++ {
		mock.ExpectQuery("SELECT provider").WillReturnError(errors.New("connection refused"))
	}

	var providers []string
	err := q.Select(context.Background(), &providers, "SELECT provider FROM icons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerierGetNoRowsIsNotRetried(t *testing.T) {
	q, mock := newTestQuerier(t)

	mock.ExpectQuery("SELECT id").WillReturnError(sql.ErrNoRows)

	var id string
	err := q.Get(context.Background(), &id, "SELECT id FROM icons WHERE id = $1", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet(), "no retry queries should have been issued")
}

func TestQuerierWithinTxCommits(t *testing.T) {
	q, mock := newTestQuerier(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectCommit()

	var count int
	err := q.WithinTx(context.Background(), func(tx *sqlx.Tx) error {
		return tx.GetContext(context.Background(), &count, "SELECT COUNT(*) FROM icons")
	})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerierWithinTxRollsBackAndRetries(t *testing.T) {
	q, mock := newTestQuerier(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("i/o timeout"))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	var count int
	err := q.WithinTx(context.Background(), func(tx *sqlx.Tx) error {
		return tx.GetContext(context.Background(), &count, "SELECT COUNT(*) FROM icons")
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
