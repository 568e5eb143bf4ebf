package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, customer_id, customer_name, customer_phone, items,
	subtotal::text, delivery_fee::text, total::text,
	delivery_mode, address, payment_method, status, estimated_time, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, o Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO orders(id, customer_id, customer_name, customer_phone, items,
			subtotal, delivery_fee, total, delivery_mode, address, payment_method,
			status, estimated_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::numeric, $7::numeric, $8::numeric,
			$9, $10, $11, $12, $13, $14, $15)`,
		o.ID, o.CustomerID, o.CustomerName, o.CustomerPhone, items,
		o.Subtotal.String(), o.DeliveryFee.String(), o.Total.String(),
		string(o.DeliveryMode), o.Address, string(o.PaymentMethod),
		string(o.Status), o.EstimatedTime, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus is a compare-and-set on the status column.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE orders SET status=$3, updated_at=$4
		WHERE id=$1 AND status=$2
		RETURNING `+orderColumns,
		id, string(from), string(to), at,
	)
	o, err := scanOrder(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Order{}, err
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return Order{}, err
	}
	if !exists {
		return Order{}, ErrNotFound
	}
	return Order{}, ErrStatusConflict
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o                     Order
		items                 []byte
		subtotal, fee, total  string
		mode, payment, status string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone, &items,
		&subtotal, &fee, &total,
		&mode, &o.Address, &payment, &status, &o.EstimatedTime, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, err
	}
	if o.Items == nil {
		o.Items = []cart.Line{}
	}
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return Order{}, err
	}
	if o.DeliveryFee, err = decimal.NewFromString(fee); err != nil {
		return Order{}, err
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return Order{}, err
	}
	o.DeliveryMode = DeliveryMode(mode)
	o.PaymentMethod = PaymentMethod(payment)
	o.Status = Status(status)
	return o, nil
}
