package feedback

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, f Feedback) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO feedbacks(id, customer_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.CustomerName, f.Rating, f.Comment, f.CreatedAt,
	)
	return err
}

func (r *Repo) List(ctx context.Context) ([]Feedback, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, customer_name, rating, comment, created_at
	                              FROM feedbacks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.CustomerName, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
