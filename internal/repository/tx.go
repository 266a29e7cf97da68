package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// dbtx is the query surface shared by *sqlx.DB and *sqlx.Tx.
type dbtx interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// Repositories are bound to a single transaction inside Transactor.InTx.
type Repositories struct {
	Users      UserRepository
	Goals      GoalRepository
	Activities ActivityRepository
	Groups     GroupRepository
	Tokens     TokenRepository
}

type Transactor interface {
	// InTx commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(repos Repositories) error) error
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) InTx(ctx context.Context, fn func(repos Repositories) error) error {
	return inTx(ctx, t.db, func(q dbtx) error {
		return fn(Repositories{
			Users:      &userRepository{db: q},
			Goals:      &goalRepository{db: q},
			Activities: &activityRepository{db: q},
			Groups:     &groupRepository{db: q},
			Tokens:     &tokenRepository{db: q},
		})
	})
}

// inTx opens a transaction on q unless q already is one.
func inTx(ctx context.Context, q dbtx, fn func(q dbtx) error) error {
	db, ok := q.(*sqlx.DB)
	if !ok {
		return fn(q)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		return err
	}

	return tx.Commit()
}
