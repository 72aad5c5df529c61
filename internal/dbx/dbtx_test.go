package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func insert(ctx context.Context, tx DBTX, v string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES (?)`, v)
	return err
}

// testError is the closed error set used to exercise InTx.
type testError interface {
	error
	testError()
}

type domainError struct{ msg string }

func (e *domainError) Error() string { return e.msg }
func (*domainError) testError()      {}

type systemError struct{ cause error }

func (e *systemError) Error() string { return "system: " + e.cause.Error() }
func (*systemError) testError()      {}

func toSystemError(err error) testError { return &systemError{cause: err} }

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return insert(ctx, tx, "ok")
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insert(ctx, tx, "fail"))
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.Equal(t, 0, countRows(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insert(ctx, tx, "panic"))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, "begin", txErr.Op)
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	v, err := InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (string, error) {
		return "done", insert(ctx, tx, "ok")
	})
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Equal(t, 1, countRows(t, db))
}

func TestInTx_TypedErrorRollsBackUnchanged(t *testing.T) {
	db := setupDB(t)
	want := &domainError{msg: "bad input"}

	v, err := InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		require.NoError(t, insert(ctx, tx, "x"))
		return 42, want
	})
	assert.Zero(t, v)
	assert.Same(t, want, err)
	assert.Equal(t, 0, countRows(t, db))
}

func TestInTx_WrappedTypedErrorIsRecovered(t *testing.T) {
	db := setupDB(t)
	want := &domainError{msg: "bad input"}

	_, err := InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		return 0, fmt.Errorf("validate: %w", want)
	})
	assert.Same(t, want, err)
}

func TestInTx_ForeignErrorIsConverted(t *testing.T) {
	db := setupDB(t)

	_, err := InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		require.NoError(t, insert(ctx, tx, "x"))
		return 0, io.ErrUnexpectedEOF
	})

	var sysErr *systemError
	require.ErrorAs(t, err, &sysErr)
	assert.ErrorIs(t, sysErr.cause, io.ErrUnexpectedEOF)
	assert.Equal(t, 0, countRows(t, db))
}

func TestInTx_PanicIsConverted(t *testing.T) {
	db := setupDB(t)

	_, err := InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		require.NoError(t, insert(ctx, tx, "x"))
		panic("kaput")
	})

	var sysErr *systemError
	require.ErrorAs(t, err, &sysErr)
	var p *PanicError
	require.ErrorAs(t, sysErr.cause, &p)
	assert.Equal(t, "kaput", p.Value)
	assert.Equal(t, 0, countRows(t, db))
}

func TestInTx_PanicWithErrorIsUnwrapped(t *testing.T) {
	db := setupDB(t)

	_, err := InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		panic(io.ErrClosedPipe)
	})

	var sysErr *systemError
	require.ErrorAs(t, err, &sysErr)
	assert.Same(t, io.ErrClosedPipe, sysErr.cause)
}

func TestInTx_CommitFailureIsUnwrappedBeforeConversion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	commitErr := errors.New("serialization failure")
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(commitErr)

	_, err = InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		return 1, nil
	})

	var sysErr *systemError
	require.ErrorAs(t, err, &sysErr)
	assert.Same(t, commitErr, sysErr.cause)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_BeginFailureIsConverted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	beginErr := errors.New("connection refused")
	mock.ExpectBegin().WillReturnError(beginErr)

	called := false
	_, err = InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		called = true
		return 1, nil
	})

	assert.False(t, called)
	var sysErr *systemError
	require.ErrorAs(t, err, &sysErr)
	assert.Same(t, beginErr, sysErr.cause)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollbackOnTypedErrorWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = InTx(context.Background(), db, toSystemError, func(ctx context.Context, tx DBTX) (int, error) {
		return 0, &domainError{msg: "nope"}
	})
	var dErr *domainError
	require.ErrorAs(t, err, &dErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRootCause(t *testing.T) {
	base := errors.New("base")
	assert.Same(t, base, RootCause(&TxError{Op: "commit", Err: base}))
	assert.Same(t, base, RootCause(&PanicError{Value: &TxError{Op: "begin", Err: base}}))

	wrapped := fmt.Errorf("ctx: %w", base)
	assert.Equal(t, wrapped, RootCause(wrapped))

	p := &PanicError{Value: 7}
	assert.Same(t, p, RootCause(p))
}
