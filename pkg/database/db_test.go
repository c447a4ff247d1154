package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var readCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestInTx_Commits(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("addresses:u-1").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectCommit()

	err := InTx(context.Background(), mock, func(tx pgx.Tx) error {
		return LockKey(context.Background(), tx, "addresses:u-1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnError(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectRollback()

	err := InTx(context.Background(), mock, func(pgx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_BeginError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(readCommitted).WillReturnError(errors.New("pool exhausted"))

	called := false
	err := InTx(context.Background(), mock, func(pgx.Tx) error { called = true; return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.False(t, called)
}

func TestInTx_CommitError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(readCommitted)
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := InTx(context.Background(), mock, func(pgx.Tx) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")
}

func TestLockKey_WrapsError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("k").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := InTx(context.Background(), mock, func(tx pgx.Tx) error {
		return LockKey(context.Background(), tx, "k")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire lock k")
	assert.NoError(t, mock.ExpectationsWereMet())
}
