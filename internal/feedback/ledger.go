package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/google/uuid"
)

type Ledger struct {
	Store   Store
	Timeout time.Duration
	Now     func() time.Time
}

func (l *Ledger) Add(ctx context.Context, name string, rating int, comment string) (Feedback, error) {
	const op = "feedback.Add"
	name = strings.TrimSpace(name)
	comment = strings.TrimSpace(comment)
	if name == "" {
		return Feedback{}, apperr.Validation(op, "name is required")
	}
	if comment == "" {
		return Feedback{}, apperr.Validation(op, "comment is required")
	}
	if rating < MinRating || rating > MaxRating {
		return Feedback{}, apperr.Validation(op, "rating must be between %d and %d", MinRating, MaxRating)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Feedback{}, apperr.Upstream(op, err)
	}
	f := Feedback{ID: id.String(), CustomerName: name, Rating: rating, Comment: comment, CreatedAt: l.now()}

	cctx, cancel := l.withTimeout(ctx)
	defer cancel()
	if err := l.Store.Create(cctx, f); err != nil {
		return Feedback{}, apperr.Upstream(op, err)
	}
	return f, nil
}

func (l *Ledger) List(ctx context.Context) ([]Feedback, error) {
	cctx, cancel := l.withTimeout(ctx)
	defer cancel()
	list, err := l.Store.List(cctx)
	if err != nil {
		return nil, apperr.Upstream("feedback.List", err)
	}
	if list == nil {
		list = []Feedback{}
	}
	return list, nil
}

func (l *Ledger) Summary(ctx context.Context) (Summary, error) {
	list, err := l.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list), nil
}

func (l *Ledger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now().UTC()
}

func (l *Ledger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.Timeout <= 0 {
		return context.WithTimeout(ctx, 5*time.Second)
	}
	return context.WithTimeout(ctx, l.Timeout)
}
