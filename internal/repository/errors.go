// Package repository contains data access logic separated from HTTP
// handlers.  Each repo wraps a *sql.DB and issues plain SQL that runs
// unchanged on MySQL and SQLite.  Methods suffixed with Tx take the
// caller's transaction and never commit it.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Sentinel lookups.  Handlers translate them into redirects or null views.
var (
	ErrCityNotFound   = errors.New("city not found")
	ErrVenueNotFound  = errors.New("venue not found")
	ErrArtistNotFound = errors.New("artist not found")
	ErrShowNotFound   = errors.New("show not found")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Summary is the compact row used by list and search pages.
type Summary struct {
	ID            uint64
	Name          string
	UpcomingShows int
}
