package order

import (
	"sort"
	"sync"
	"time"
)

// Repository defines persistence for orders. UpdateStatus and MarkPaid are
// conditional writes: they only apply when the stored status still matches
// what the caller observed, which is what keeps concurrent admin
// transitions and payment confirmations from losing updates.
type Repository interface {
	Create(ord Order) (Order, error)
	GetByOrderID(orderID string) (Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (Order, error)
	ListByCustomer(customerID int) ([]Order, error)
	ListByCustomerAndStatus(customerID int, st Status) ([]Order, error)
	ListRecent(limit int) ([]Order, error)
	ListByStatus(st Status) ([]Order, error)
	SetGatewayOrder(orderID, gatewayOrderID, paymentStatus string) error
	// UpdateStatus moves orderID from `from` to `to`. It fails with
	// ErrNotFound when the order does not exist and ErrInvalidTransition
	// when the stored status is no longer `from`.
	UpdateStatus(orderID string, from, to Status) (Order, error)
	// MarkPaid flips a PENDING order to PAID and records the payment
	// fields. The bool result is false when the order was already past
	// PENDING, which makes replayed confirmations a no-op.
	MarkPaid(orderID, paymentID, signature string, paidAt time.Time) (Order, bool, error)
	Delete(orderID string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	orders []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, ord := range seed {
		if ord.ID == 0 {
			ord.ID = r.nextID
		}
		if ord.ID >= r.nextID {
			r.nextID = ord.ID + 1
		}
		r.orders = append(r.orders, ord)
	}
	return r
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByOrderID(orderID string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ord := range r.orders {
		if ord.OrderID == orderID {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) GetByGatewayOrderID(gatewayOrderID string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gatewayOrderID == "" {
		return Order{}, ErrNotFound
	}
	for _, ord := range r.orders {
		if ord.GatewayOrderID == gatewayOrderID {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByCustomer(customerID int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.CustomerID == customerID {
			out = append(out, ord)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (r *InMemoryRepository) ListByCustomerAndStatus(customerID int, st Status) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.CustomerID == customerID && ord.Status == st {
			out = append(out, ord)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (r *InMemoryRepository) ListRecent(limit int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	sortByDateDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) ListByStatus(st Status) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.Status == st {
			out = append(out, ord)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (r *InMemoryRepository) SetGatewayOrder(orderID, gatewayOrderID, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].OrderID == orderID {
			r.orders[i].GatewayOrderID = gatewayOrderID
			r.orders[i].PaymentStatus = paymentStatus
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(orderID string, from, to Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].OrderID == orderID {
			if r.orders[i].Status != from {
				return Order{}, ErrInvalidTransition
			}
			r.orders[i].Status = to
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) MarkPaid(orderID, paymentID, signature string, paidAt time.Time) (Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].OrderID == orderID {
			if r.orders[i].Status != StatusPending {
				return r.orders[i], false, nil
			}
			r.orders[i].Status = StatusPaid
			r.orders[i].PaymentID = paymentID
			r.orders[i].GatewaySignature = signature
			r.orders[i].PaymentStatus = "paid"
			r.orders[i].PaidAt = &paidAt
			return r.orders[i], true, nil
		}
	}
	return Order{}, false, ErrNotFound
}

func (r *InMemoryRepository) Delete(orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].OrderID == orderID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func sortByDateDesc(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
