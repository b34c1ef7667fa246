package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a row is missing or outside the caller's
// property scope.
var ErrNotFound = errors.New("not found")

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

// Tx is the slice of a database transaction the stores need for writes that
// must land atomically with reads of the same rows.
type Tx interface {
	Execer
	Getter
	Selecter
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
