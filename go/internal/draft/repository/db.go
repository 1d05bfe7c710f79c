package repository

import (
	"context"
	"database/sql"
	_ "embed"
)

// Schema creates the draft tables and the outbox notify trigger.
//
//go:embed schema.sql
var Schema string

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the SQL statements of the draft store bound to a connection
// or a transaction.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// newTxQueries binds Queries to a transaction for sqlutil.Run.
func newTxQueries(tx *sql.Tx) *Queries {
	return New(tx)
}

// Migrate applies Schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
