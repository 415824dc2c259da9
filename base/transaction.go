package base

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/northway/migrator/types"
)

// Transaction wraps *sql.Tx with an explicit lifecycle so that Commit and
// Rollback can be called in any order without surprising errors.
type Transaction struct {
	mu     sync.Mutex
	tx     *sql.Tx
	state  types.TxState
	logger *DBLogger
}

// NewTransaction wraps an open *sql.Tx
func NewTransaction(tx *sql.Tx, l *DBLogger) *Transaction {
	if l == nil {
		l = NewDBLogger(nil)
	}
	return &Transaction{tx: tx, state: types.TxOpen, logger: l}
}

// State returns the lifecycle state
func (t *Transaction) State() types.TxState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Commit commits an open transaction. Committing a finished transaction is
// an error only if it was rolled back.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case types.TxCommitted:
		return nil
	case types.TxRolledBack:
		return fmt.Errorf("transaction already rolled back")
	case types.TxNone:
		return nil
	}

	if err := t.tx.Commit(); err != nil {
		// database/sql discards the tx on a failed commit
		t.state = types.TxRolledBack
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.state = types.TxCommitted
	return nil
}

// Rollback rolls back an open transaction; otherwise it is a no-op
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != types.TxOpen {
		return nil
	}
	t.state = types.TxRolledBack
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (t *Transaction) ensureOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != types.TxOpen {
		return fmt.Errorf("transaction is %s", t.state)
	}
	return nil
}

// ExecContext executes a statement inside the transaction
func (t *Transaction) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := t.ensureOpen(); err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := t.tx.ExecContext(ctx, query, args...)
	t.logger.LogSQL(query, args, time.Since(start))
	return result, err
}

// QueryContext runs a query inside the transaction
func (t *Transaction) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := t.ensureOpen(); err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.logger.LogSQL(query, args, time.Since(start))
	return rows, err
}

// QueryRowContext runs a single-row query inside the transaction
func (t *Transaction) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.logger.LogSQL(query, args, time.Since(start))
	return row
}

var _ types.Transaction = (*Transaction)(nil)
