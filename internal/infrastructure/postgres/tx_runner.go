package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/storage-manager/internal/application/customers"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

var _ customers.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCustomer abre una transacción, toma un advisory lock por cada clave de identidad
// (orden fijo para evitar deadlocks), ejecuta fn con un repo atado a la tx y hace Commit o Rollback.
// Los locks se liberan solos al terminar la transacción.
func (r *TxRunner) RunCustomer(ctx context.Context, lockKeys []string, fn func(repo repository.CustomerRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, key := range sortedUnique(lockKeys) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
			return fmt.Errorf("advisory lock %s: %w", key, err)
		}
	}

	if err := fn(NewCustomerRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func sortedUnique(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
