// Package store provides focused, single-concern data access stores
// for the inventory ledger.
//
// Each store owns one domain (items, audit log, summaries) and embeds
// shared helpers (Pool, logger) via the Base struct. Stores never
// import each other; the audit append helper is package-level so the
// item store can write its log rows inside the same transaction that
// mutates item state.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// GetActorByToken looks up an actor email by API token hash.
func (b *Base) GetActorByToken(ctx context.Context, token string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(hash[:])

	var email string

	err := b.Pool.QueryRow(ctx, "SELECT email FROM actors WHERE token_hash = $1", tokenHash).Scan(&email)
	if err != nil {
		return "", fmt.Errorf("looking up actor by token: %w", err)
	}

	return email, nil
}
