package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
)

type PoolRepository struct {
	mu     sync.RWMutex
	items  map[string]pool.Pool
	orders []string
}

func NewPoolRepository(pools []pool.Pool) *PoolRepository {
	items := make(map[string]pool.Pool, len(pools))
	orders := make([]string, 0, len(pools))

	for _, p := range pools {
		items[p.ID] = clonePool(p)
		orders = append(orders, p.ID)
	}

	return &PoolRepository{
		items:  items,
		orders: orders,
	}
}

func (r *PoolRepository) Create(_ context.Context, p pool.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; !exists {
		r.orders = append(r.orders, p.ID)
	}
	r.items[p.ID] = clonePool(p)
	return nil
}

func (r *PoolRepository) GetByID(_ context.Context, poolID string) (pool.Pool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[poolID]
	if !ok {
		return pool.Pool{}, false, nil
	}
	return clonePool(p), true, nil
}

func (r *PoolRepository) ListPublic(_ context.Context) ([]pool.Pool, error) {
	return r.list(func(p pool.Pool) bool { return p.IsPublic }), nil
}

func (r *PoolRepository) ListByMember(_ context.Context, userID string) ([]pool.Pool, error) {
	return r.list(func(p pool.Pool) bool { return p.HasMember(userID) }), nil
}

func (r *PoolRepository) AddMember(_ context.Context, poolID string, member pool.Member) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[poolID]
	if !ok || p.HasMember(member.UserID) {
		return false, nil
	}
	p.Members = append(slices.Clone(p.Members), member)
	r.items[poolID] = p
	return true, nil
}

func (r *PoolRepository) Delete(_ context.Context, poolID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[poolID]; !ok {
		return false, nil
	}
	delete(r.items, poolID)
	r.orders = slices.DeleteFunc(r.orders, func(id string) bool { return id == poolID })
	return true, nil
}

// list returns matches newest first, like the postgres ordering.
func (r *PoolRepository) list(match func(pool.Pool) bool) []pool.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pool.Pool, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		p := r.items[r.orders[i]]
		if match(p) {
			out = append(out, clonePool(p))
		}
	}
	return out
}

func clonePool(p pool.Pool) pool.Pool {
	p.Members = slices.Clone(p.Members)
	return p
}
