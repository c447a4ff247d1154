package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunMigrations_AppliesPendingInOrder(t *testing.T) {
	mock := newMock(t)
	files := fstest.MapFS{
		"000002_b.up.sql":   {Data: []byte("CREATE TABLE b (id INT)")},
		"000001_a.up.sql":   {Data: []byte("CREATE TABLE a (id INT)")},
		"000001_a.down.sql": {Data: []byte("DROP TABLE a")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("000001_a.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("000002_b.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("CREATE TABLE b").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("000002_b.up.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, RunMigrations(context.Background(), mock, files, discardLogger()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_SQLErrorIsNotRetried(t *testing.T) {
	mock := newMock(t)
	files := fstest.MapFS{"000001_a.up.sql": {Data: []byte("CREATE TABLE a (")}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("000001_a.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("CREATE TABLE a").WillReturnError(&pgconn.PgError{Code: "42601", Message: "syntax error"})
	mock.ExpectRollback()

	err := RunMigrations(context.Background(), mock, files, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute migration 000001_a.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")))
	assert.False(t, isConnectionError(&pgconn.PgError{Code: "23505", Message: "connection refused lookalike"}))
	assert.False(t, isConnectionError(errors.New("relation does not exist")))
}

func TestRetryBackoff_Bounds(t *testing.T) {
	for attempt, base := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		for range 20 {
			d := retryBackoff(attempt)
			assert.GreaterOrEqual(t, d, time.Duration(float64(base)*0.75))
			assert.LessOrEqual(t, d, time.Duration(float64(base)*1.25))
		}
	}
}
