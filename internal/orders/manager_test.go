package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newClock() *tickClock {
	return &tickClock{t: time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)}
}

func newManager(store Store, pub Publisher) *Manager {
	return NewManager(store, pub, ManagerConfig{
		Timeout:       time.Second,
		EstimatedTime: "30-45 min",
		Now:           newClock().Now,
	})
}

func pizzaLine(t *testing.T) cart.Line {
	t.Helper()
	cfg, err := cart.NewConfigurator(menu.Default(), "paulistana")
	require.NoError(t, err)
	l, err := cfg.Line(1)
	require.NoError(t, err)
	l.ID = "paulistana-1"
	return l
}

func newOrder(t *testing.T, customer string) NewOrder {
	lines := []cart.Line{pizzaLine(t)}
	fee := decimal.RequireFromString("4.90")
	sub := pricing.CartTotals(lines).Subtotal
	return NewOrder{
		CustomerID:    customer,
		CustomerName:  "Ana",
		CustomerPhone: "11999990000",
		Lines:         lines,
		Subtotal:      sub,
		DeliveryFee:   fee,
		Total:         pricing.OrderTotal(sub, ModeDelivery, fee),
		DeliveryMode:  ModeDelivery,
		Address:       "Rua Augusta, 100",
		PaymentMethod: PaymentPix,
	}
}

type failingStore struct {
	*MemoryStore
	err error
}

func (s failingStore) Create(context.Context, Order) error { return s.err }

func (s failingStore) UpdateStatus(context.Context, string, Status, Status, time.Time) (Order, error) {
	return Order{}, s.err
}

type blockingStore struct{ *MemoryStore }

func (blockingStore) Create(ctx context.Context, _ Order) error {
	<-ctx.Done()
	return ctx.Err()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func TestCreate_StartsPending(t *testing.T) {
	pub := &recordingPublisher{}
	m := newManager(NewMemoryStore(), pub)

	o, err := m.Create(context.Background(), newOrder(t, "c1"))
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "30-45 min", o.EstimatedTime)
	assert.Equal(t, "49.90", pricing.Display(o.Total))
	assert.Equal(t, []EventType{Inserted}, pub.types())

	got, err := m.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestCreate_Validation(t *testing.T) {
	cases := map[string]func(*NewOrder){
		"no customer": func(n *NewOrder) { n.CustomerID = "" },
		"no items":    func(n *NewOrder) { n.Lines = nil },
		"no address":  func(n *NewOrder) { n.Address = "  " },
		"bad mode":    func(n *NewOrder) { n.DeliveryMode = "drone" },
		"bad payment": func(n *NewOrder) { n.PaymentMethod = "barter" },
		"negative":    func(n *NewOrder) { n.Total = decimal.NewFromInt(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStore()
			m := newManager(store, nil)
			in := newOrder(t, "c1")
			mutate(&in)

			_, err := m.Create(context.Background(), in)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), err)

			all, err := store.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestCreate_PickupDropsAddress(t *testing.T) {
	m := newManager(NewMemoryStore(), nil)
	in := newOrder(t, "c1")
	in.DeliveryMode = ModePickup
	in.Address = ""
	in.DeliveryFee = decimal.Zero
	in.Total = in.Subtotal

	o, err := m.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, o.Address)
	assert.Equal(t, "45.00", pricing.Display(o.Total))
}

func TestCreate_UpstreamFailureLeavesNothingBehind(t *testing.T) {
	boom := errors.New("connection refused")
	pub := &recordingPublisher{}
	m := newManager(failingStore{NewMemoryStore(), boom}, pub)

	_, err := m.Create(context.Background(), newOrder(t, "c1"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, m.View().Len())
	assert.Empty(t, pub.types())
}

func TestCreate_TimeoutIsRetryable(t *testing.T) {
	m := NewManager(blockingStore{NewMemoryStore()}, nil, ManagerConfig{Timeout: 20 * time.Millisecond})

	_, err := m.Create(context.Background(), newOrder(t, "c1"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
	assert.True(t, apperr.IsRetryable(err))
}

func TestCreate_PublishFailureStillPersists(t *testing.T) {
	store := NewMemoryStore()
	m := newManager(store, &recordingPublisher{err: errors.New("broker down")})

	o, err := m.Create(context.Background(), newOrder(t, "c1"))
	require.NoError(t, err)
	_, err = store.Get(context.Background(), o.ID)
	assert.NoError(t, err)
}

func TestAdvance_FullLifecycleKeepsItemsAndTotal(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	m := newManager(NewMemoryStore(), pub)
	o, err := m.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)

	prev := o
	for _, to := range []Status{StatusPreparing, StatusReady, StatusOutForDelivery, StatusDelivered} {
		next, err := m.AdvanceNext(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, to, next.Status)
		assert.True(t, next.UpdatedAt.After(prev.UpdatedAt))
		assert.Equal(t, o.Items, next.Items)
		assert.True(t, o.Total.Equal(next.Total))
		prev = next
	}

	_, err = m.AdvanceNext(ctx, o.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	_, err = m.Cancel(ctx, o.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	assert.Equal(t, []EventType{Inserted, Updated, Updated, Updated, Updated}, pub.types())
}

func TestAdvance_RejectsSkipsAndBackwards(t *testing.T) {
	ctx := context.Background()
	m := newManager(NewMemoryStore(), nil)
	o, err := m.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)

	_, err = m.Advance(ctx, o.ID, StatusReady)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	_, err = m.Advance(ctx, o.ID, StatusPreparing)
	require.NoError(t, err)
	_, err = m.Advance(ctx, o.ID, StatusPending)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	_, err = m.Advance(ctx, o.ID, Status("burnt"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAdvance_UnknownOrder(t *testing.T) {
	m := newManager(NewMemoryStore(), nil)
	_, err := m.Advance(context.Background(), "nope", StatusPreparing)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAdvance_UpstreamFailureKeepsLocalStatus(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	ok := newManager(mem, nil)
	o, err := ok.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)

	m := newManager(failingStore{mem, errors.New("timeout")}, nil)
	require.NoError(t, m.Load(ctx))
	_, err = m.Advance(ctx, o.ID, StatusPreparing)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))

	got, err := m.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestAdvance_ConcurrentChangeIsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newManager(store, nil)
	o, err := m.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, o.ID, StatusPending, StatusCancelled, time.Now())
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, o.ID, StatusPending, StatusPreparing, time.Now())
	assert.ErrorIs(t, err, ErrStatusConflict)

	_, err = m.Advance(ctx, o.ID, StatusPreparing)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
}

func TestCancel_FromAnyOpenStatus(t *testing.T) {
	ctx := context.Background()
	m := newManager(NewMemoryStore(), nil)

	for _, steps := range []int{0, 1, 2, 3} {
		o, err := m.Create(ctx, newOrder(t, "c1"))
		require.NoError(t, err)
		for i := 0; i < steps; i++ {
			_, err = m.AdvanceNext(ctx, o.ID)
			require.NoError(t, err)
		}
		got, err := m.Cancel(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	}
}

func TestForCustomer_NewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	m := newManager(NewMemoryStore(), nil)

	first, err := m.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)
	_, err = m.Create(ctx, newOrder(t, "c2"))
	require.NoError(t, err)
	second, err := m.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)

	mine, err := m.ForCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	none, err := m.ForCustomer(ctx, "c3")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = m.ForCustomer(ctx, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestForStaff_FilterAndDashboard(t *testing.T) {
	ctx := context.Background()
	m := newManager(NewMemoryStore(), nil)

	var ids []string
	for i := 0; i < 4; i++ {
		o, err := m.Create(ctx, newOrder(t, "c1"))
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := m.Advance(ctx, ids[0], StatusPreparing)
	require.NoError(t, err)
	_, err = m.Advance(ctx, ids[1], StatusPreparing)
	require.NoError(t, err)
	_, err = m.Advance(ctx, ids[1], StatusReady)
	require.NoError(t, err)

	all, err := m.ForStaff(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pending, err := m.ForStaff(ctx, Filter{Status: StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	d, err := m.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, Dashboard{Total: 4, Pending: 2, Preparing: 1, Ready: 1}, d)

	_, err = m.ForStaff(ctx, Filter{Status: "lost"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRemove_EmitsDeleted(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	m := newManager(NewMemoryStore(), pub)
	o, err := m.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, o.ID))
	_, err = m.Get(ctx, o.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, []EventType{Inserted, Deleted}, pub.types())

	err = m.Remove(ctx, o.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestLoad_WarmsViewFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	o, err := newManager(store, nil).Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)

	m := newManager(store, nil)
	assert.Zero(t, m.View().Len())
	require.NoError(t, m.Load(ctx))
	_, ok := m.View().Get(o.ID)
	assert.True(t, ok)
}

func TestFollow_ManagersConverge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemoryStore()
	feed := NewBroadcaster(16)
	a := newManager(store, feed)
	b := newManager(store, feed)
	go b.Follow(ctx, feed.Subscribe(ctx))

	o, err := a.Create(ctx, newOrder(t, "c1"))
	require.NoError(t, err)
	_, err = a.AdvanceNext(ctx, o.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, ok := b.View().Get(o.ID)
		return ok && got.Status == StatusPreparing
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, a.Remove(ctx, o.ID))
	assert.Eventually(t, func() bool {
		_, ok := b.View().Get(o.ID)
		return !ok
	}, time.Second, 5*time.Millisecond)
}
