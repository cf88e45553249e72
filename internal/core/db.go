// Package core holds the service layer. Services validate input, run
// repository calls inside transactions and return a Result envelope.
package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/easybudget/internal/store"
)

// DB is the database handle services depend on. *pgxpool.Pool satisfies it.
type DB interface {
	store.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx runs fn in a single transaction. It commits when fn returns nil and
// rolls back otherwise.
func withTx(ctx context.Context, db DB, fn func(s *store.Store, g *store.Global) error) error {
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return fn(store.New(tx), store.NewGlobal(tx))
	})
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, invalid("invalid date %q, expected YYYY-MM-DD", *s)
	}
	return &t, nil
}
