// Package dbx holds the database handle abstraction shared by repositories
// and the helpers that run units of work inside a transaction.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the subset of database/sql used by repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxError wraps a failure of the transaction boundary itself.
type TxError struct {
	Op  string
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%s transaction: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking unit of work.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in transaction: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// WithTx begins a transaction, runs fn with the transactional handle, and
// commits on success or rolls back on error. Panics roll back and are rethrown.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return &TxError{Op: "begin", Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = &TxError{Op: "commit", Err: cerr}
		}
	}()

	return fn(ctx, tx)
}

// InTx runs work inside a transaction and binds its outcome to a typed error E.
//
// A nil error commits. An error matching E rolls back and is returned as is.
// Anything else (a foreign error, a panic, or a failed begin/commit) rolls
// back and is converted with onFault, so callers only ever see the zero E or
// an E describing what went wrong.
func InTx[V any, E error](ctx context.Context, db *sql.DB, onFault func(error) E, work func(ctx context.Context, tx DBTX) (V, error)) (v V, typed E) {
	var (
		zero   V
		noErr  E
		result V
	)

	defer func() {
		if p := recover(); p != nil {
			v, typed = zero, onFault(RootCause(&PanicError{Value: p}))
		}
	}()

	err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		var werr error
		result, werr = work(ctx, tx)
		return werr
	})
	if err == nil {
		return result, noErr
	}

	if errors.As(err, &typed) {
		return zero, typed
	}
	return zero, onFault(RootCause(err))
}

// RootCause strips the transaction boundary's own wrappers so the original
// fault can be classified. Other wrapping is left intact.
func RootCause(err error) error {
	for {
		switch e := err.(type) {
		case *TxError:
			err = e.Err
		case *PanicError:
			inner := e.Unwrap()
			if inner == nil {
				return e
			}
			err = inner
		default:
			return err
		}
	}
}
