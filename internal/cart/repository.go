package cart

import (
	"sort"
	"sync"
)

// Repository defines persistence for carts. FindAllByUser deliberately
// returns a slice: the table carries no unique index on user_id, so
// concurrent first writes can leave duplicate rows behind. The service
// owns reconciling them.
type Repository interface {
	FindAllByUser(userID int) ([]Cart, error)
	Save(c Cart) (Cart, error)
	Delete(cartID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	carts  []Cart
}

func NewInMemoryRepository(seed []Cart) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, c := range seed {
		if c.ID == 0 {
			c.ID = r.nextID
		}
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.carts = append(r.carts, cloneCart(c))
	}
	return r
}

func (r *InMemoryRepository) FindAllByUser(userID int) ([]Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cart, 0)
	for _, c := range r.carts {
		if c.UserID == userID {
			out = append(out, cloneCart(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) Save(c Cart) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
		r.carts = append(r.carts, cloneCart(c))
		return c, nil
	}
	for i := range r.carts {
		if r.carts[i].ID == c.ID {
			r.carts[i] = cloneCart(c)
			return c, nil
		}
	}
	r.carts = append(r.carts, cloneCart(c))
	return c, nil
}

func (r *InMemoryRepository) Delete(cartID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID == cartID {
			r.carts = append(r.carts[:i], r.carts[i+1:]...)
			return nil
		}
	}
	return nil
}

func cloneCart(c Cart) Cart {
	items := make(map[int]int, len(c.Items))
	for k, v := range c.Items {
		items[k] = v
	}
	c.Items = items
	return c
}
