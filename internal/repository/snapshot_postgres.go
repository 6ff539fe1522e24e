package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type snapshotPostgres struct {
	pool *pgxpool.Pool
}

func NewSnapshotPostgres(pool *pgxpool.Pool) (port.SnapshotStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &snapshotPostgres{pool: pool}, nil
}

func (r *snapshotPostgres) Load(ctx context.Context, storeName string) (domain.CartSnapshot, bool, error) {
	if storeName == "" {
		return domain.CartSnapshot{}, false, fmt.Errorf("storeName is empty")
	}

	var snapshot domain.CartSnapshot

	row := r.pool.QueryRow(ctx,
		`SELECT sidebar_open, last_order_id FROM cart_snapshots WHERE store_name = $1`,
		storeName)
	if err := row.Scan(&snapshot.SidebarOpen, &snapshot.LastOrderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CartSnapshot{}, false, nil
		}
		return domain.CartSnapshot{}, false, fmt.Errorf("row.Scan: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product, quantity FROM cart_lines WHERE store_name = $1 ORDER BY position`,
		storeName)
	if err != nil {
		return domain.CartSnapshot{}, false, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productJSON []byte
			quantity    int
		)
		if err := rows.Scan(&productJSON, &quantity); err != nil {
			return domain.CartSnapshot{}, false, fmt.Errorf("rows.Scan: %w", err)
		}

		var product domain.Product
		if err := json.Unmarshal(productJSON, &product); err != nil {
			return domain.CartSnapshot{}, false, fmt.Errorf("json.Unmarshal: %w", err)
		}

		snapshot.Lines = append(snapshot.Lines, domain.CartLine{Product: product, Quantity: quantity})
	}
	if err := rows.Err(); err != nil {
		return domain.CartSnapshot{}, false, fmt.Errorf("rows.Err: %w", err)
	}

	return snapshot, true, nil
}

// Save replaces the stored snapshot wholesale: the snapshot row is upserted
// and the line set rewritten inside one transaction.
func (r *snapshotPostgres) Save(ctx context.Context, storeName string, snapshot domain.CartSnapshot) error {
	if storeName == "" {
		return fmt.Errorf("storeName is empty")
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		var zero struct{}

		_, err := tx.Exec(ctx,
			`INSERT INTO cart_snapshots (store_name, sidebar_open, last_order_id, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (store_name) DO UPDATE
			 SET sidebar_open = EXCLUDED.sidebar_open,
			     last_order_id = EXCLUDED.last_order_id,
			     updated_at = now()`,
			storeName, snapshot.SidebarOpen, snapshot.LastOrderID)
		if err != nil {
			return zero, fmt.Errorf("tx.Exec upsert: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE store_name = $1`, storeName); err != nil {
			return zero, fmt.Errorf("tx.Exec delete lines: %w", err)
		}

		for position, line := range snapshot.Lines {
			productJSON, err := json.Marshal(line.Product)
			if err != nil {
				return zero, fmt.Errorf("json.Marshal: %w", err)
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO cart_lines (store_name, position, product, quantity) VALUES ($1, $2, $3, $4)`,
				storeName, position, productJSON, line.Quantity)
			if err != nil {
				return zero, fmt.Errorf("tx.Exec insert line: %w", err)
			}
		}

		return zero, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}
