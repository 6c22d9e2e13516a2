package catalog

import (
	"sort"
	"sync"
)

// Repository provides access to the food catalog.
type Repository interface {
	Get(foodID int) (Food, error)
	List() ([]Food, error)
	ListByIDs(ids []int) ([]Food, error)
	Create(f Food) (Food, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	foods  map[int]Food
}

func NewInMemoryRepository(seed []Food) *InMemoryRepository {
	r := &InMemoryRepository{foods: make(map[int]Food, len(seed)), nextID: 1}
	for _, f := range seed {
		r.foods[f.ID] = f
		if f.ID >= r.nextID {
			r.nextID = f.ID + 1
		}
	}
	return r
}

func (r *InMemoryRepository) Get(foodID int) (Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.foods[foodID]
	if !ok {
		return Food{}, ErrNotFound
	}
	return f, nil
}

func (r *InMemoryRepository) List() ([]Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Food, 0, len(r.foods))
	for _, f := range r.foods {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Food, 0, len(ids))
	for _, id := range ids {
		if f, ok := r.foods[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(f Food) (Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	r.foods[f.ID] = f
	return f, nil
}
