package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id             TEXT PRIMARY KEY,
		customer_id    TEXT NOT NULL,
		customer_name  TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		items          JSONB NOT NULL,
		subtotal       NUMERIC NOT NULL,
		delivery_fee   NUMERIC NOT NULL,
		total          NUMERIC NOT NULL,
		delivery_mode  TEXT NOT NULL,
		address        TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL,
		status         TEXT NOT NULL,
		estimated_time TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	// money keeps full precision; rounding happens when it is displayed
	`ALTER TABLE orders
		ALTER COLUMN subtotal TYPE NUMERIC,
		ALTER COLUMN delivery_fee TYPE NUMERIC,
		ALTER COLUMN total TYPE NUMERIC`,
	`CREATE INDEX IF NOT EXISTS orders_customer_created_idx ON orders (customer_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status)`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id            TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		rating        SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment       TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables the service needs if they are missing.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema step %d: %w", i+1, err)
		}
	}
	return nil
}
