package orders

import "sync"

// View is the local copy of the orders collection. Apply is idempotent: the
// furthest status per order id wins (see Supersedes), replays are no-ops and
// deleted ids stay deleted.
type View struct {
	mu      sync.RWMutex
	orders  map[string]Order
	deleted map[string]struct{}
}

func NewView() *View {
	return &View{
		orders:  make(map[string]Order),
		deleted: make(map[string]struct{}),
	}
}

// Apply reports whether the event changed the view.
func (v *View) Apply(ev Event) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := ev.Order.ID
	switch ev.Type {
	case Inserted, Updated:
		if _, gone := v.deleted[id]; gone {
			return false
		}
		cur, ok := v.orders[id]
		if ok && !Supersedes(ev.Order.Status, ev.Order.UpdatedAt, cur.Status, cur.UpdatedAt) {
			return false
		}
		v.orders[id] = ev.Order
		return true
	case Deleted:
		v.deleted[id] = struct{}{}
		if _, ok := v.orders[id]; !ok {
			return false
		}
		delete(v.orders, id)
		return true
	}
	return false
}

// Replace swaps the whole view for a fresh listing.
func (v *View) Replace(orders []Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orders = make(map[string]Order, len(orders))
	for _, o := range orders {
		v.orders[o.ID] = o
	}
}

func (v *View) Get(id string) (Order, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	o, ok := v.orders[id]
	return o, ok
}

// Select returns matching orders newest first.
func (v *View) Select(match func(Order) bool) []Order {
	v.mu.RLock()
	out := make([]Order, 0, len(v.orders))
	for _, o := range v.orders {
		if match == nil || match(o) {
			out = append(out, o)
		}
	}
	v.mu.RUnlock()
	SortNewestFirst(out)
	return out
}

func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.orders)
}
