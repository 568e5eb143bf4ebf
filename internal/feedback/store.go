package feedback

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store keeps feedback entries. List returns newest first.
type Store interface {
	Create(ctx context.Context, f Feedback) error
	List(ctx context.Context) ([]Feedback, error)
}

type MemoryStore struct {
	mu    sync.RWMutex
	items []Feedback
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Create(ctx context.Context, f Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, f)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]Feedback(nil), s.items...)
	s.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

// Seed loads the opening reviews shown before any customer has written one.
func (s *MemoryStore) Seed() *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, SeedFeedbacks()...)
	return s
}

func SeedFeedbacks() []Feedback {
	day := func(d int) time.Time { return time.Date(2024, 12, d, 0, 0, 0, 0, time.UTC) }
	return []Feedback{
		{ID: "1", CustomerName: "Maria S.", Rating: 5, Comment: "Melhor pizza de São Paulo! A massa é perfeita e o atendimento é excelente.", CreatedAt: day(1)},
		{ID: "2", CustomerName: "João P.", Rating: 5, Comment: "Calabresa Premium é sensacional! Entrega super rápida.", CreatedAt: day(5)},
		{ID: "3", CustomerName: "Ana L.", Rating: 4, Comment: "Pizza deliciosa, só demorou um pouquinho mais que o esperado.", CreatedAt: day(8)},
		{ID: "4", CustomerName: "Carlos M.", Rating: 5, Comment: "Quatro Queijos maravilhosa! Virei cliente fiel.", CreatedAt: day(9)},
	}
}

func sortNewestFirst(list []Feedback) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
