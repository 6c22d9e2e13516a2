package notify

import "sync"

// Topic layout mirrors what the realtime clients subscribe to: one channel
// per order for the customer tracking it, plus a global admin channel.
const (
	TopicAdminOrders = "admin/orders"

	EventOrderCreated  = "order.created"
	EventStatusChanged = "order.status_changed"
)

func OrderTopic(orderID string) string {
	return "orders/" + orderID
}

// Event is the payload broadcast on order lifecycle changes. For
// order.created events the status fields carry the initial status only.
type Event struct {
	Type           string  `json:"type"`
	OrderID        string  `json:"orderId"`
	PreviousStatus string  `json:"previousStatus,omitempty"`
	NewStatus      string  `json:"newStatus"`
	GrandTotal     float64 `json:"grandTotal,omitempty"`
	PaymentMode    string  `json:"paymentMode,omitempty"`
	UpdatedAt      int64   `json:"updatedAt"`
	UpdatedBy      string  `json:"updatedBy,omitempty"`
}

// Broker is an in-process fan-out publisher. Publish never blocks: a
// subscriber that stopped draining its channel misses events instead of
// stalling the order flow. Delivery is best-effort by contract.
type Broker struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string][]chan Event)}
}

// Subscribe registers a buffered listener on topic. The returned cancel
// func removes it and closes the channel.
func (b *Broker) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		listeners := b.subs[topic]
		for i, sub := range listeners {
			if sub == ch {
				b.subs[topic] = append(listeners[:i], listeners[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

func (b *Broker) Publish(topic string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- ev:
		default:
			// subscriber is full; drop rather than block the caller
		}
	}
}
