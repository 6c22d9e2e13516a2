package order

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/foodkart/food-order-backend/internal/catalog"
	"github.com/foodkart/food-order-backend/internal/notify"
)

// Gateway creates a payment intent with the remote processor. The amount is
// in the gateway's minor currency unit and receipt carries the business
// order id so remote records can be matched back.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (GatewayOrder, error)
}

type GatewayOrder struct {
	ID     string
	Status string
}

// CartSource is the slice of the cart service the assembler needs.
type CartSource interface {
	Snapshot(userID int) (map[int]int, error)
	Clear(userID int) error
}

type CreateRequest struct {
	UseCart     bool            `json:"useCart"`
	Items       []ItemRequest   `json:"items,omitempty"`
	PaymentMode string          `json:"paymentMode"`
	Billing     *BillingDetails `json:"billing,omitempty"`
}

type ItemRequest struct {
	FoodID   int `json:"foodId"`
	Quantity int `json:"quantity"`
}

// Service assembles, prices and persists orders and drives their lifecycle.
type Service struct {
	repo     Repository
	carts    CartSource
	lookup   catalog.Lookup
	gateway  Gateway
	notifier *notify.Broker

	taxRate        float64
	currency       string
	gatewayTimeout time.Duration
}

func NewService(repo Repository, carts CartSource, lookup catalog.Lookup, gateway Gateway,
	notifier *notify.Broker, taxRate float64, currency string, gatewayTimeout time.Duration) *Service {
	return &Service{
		repo:           repo,
		carts:          carts,
		lookup:         lookup,
		gateway:        gateway,
		notifier:       notifier,
		taxRate:        taxRate,
		currency:       currency,
		gatewayTimeout: gatewayTimeout,
	}
}

// Create converts a cart snapshot or an explicit item list into a persisted
// PENDING order and then asks the gateway for a payment intent. The local
// order is durable before the cart is cleared and before the gateway is
// called; a gateway failure therefore leaves a retryable PENDING order and
// surfaces as ErrGateway alongside it.
func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (Order, error) {
	items, err := s.resolveItems(userID, req)
	if err != nil {
		return Order{}, err
	}

	lines, err := s.assemble(items)
	if err != nil {
		return Order{}, err
	}

	totals := Price(lines, s.taxRate)
	ord := Order{
		OrderID:     newOrderID(),
		CustomerID:  userID,
		Lines:       lines,
		SubTotal:    totals.SubTotal,
		TaxRate:     totals.TaxRate,
		TaxAmount:   totals.TaxAmount,
		GrandTotal:  totals.GrandTotal,
		PaymentMode: req.PaymentMode,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
		Billing:     req.Billing,
	}

	ord, err = s.repo.Create(ord)
	if err != nil {
		return Order{}, err
	}

	// cart is cleared only after the order is durable; the reverse order
	// would lose the user's selection on a failed insert
	if req.UseCart {
		if err := s.carts.Clear(userID); err != nil {
			fmt.Printf("warning: could not clear cart for user %d after order %s: %v\n", userID, ord.OrderID, err)
		}
	}

	s.notifier.Publish(notify.TopicAdminOrders, notify.Event{
		Type:        notify.EventOrderCreated,
		OrderID:     ord.OrderID,
		NewStatus:   string(ord.Status),
		GrandTotal:  ord.GrandTotal,
		PaymentMode: ord.PaymentMode,
		UpdatedAt:   time.Now().UnixMilli(),
	})

	return s.createGatewayOrder(ctx, ord)
}

// InitiatePayment retries gateway order creation for an existing PENDING
// order, e.g. after a timeout during Create.
func (s *Service) InitiatePayment(ctx context.Context, userID int, orderID string) (Order, error) {
	ord, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.CustomerID != userID {
		return Order{}, ErrNotFound
	}
	if ord.Status != StatusPending {
		return Order{}, ErrInvalidTransition
	}
	return s.createGatewayOrder(ctx, ord)
}

func (s *Service) createGatewayOrder(ctx context.Context, ord Order) (Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	gw, err := s.gateway.CreateOrder(ctx, MinorUnits(ord.GrandTotal), s.currency, ord.OrderID)
	if err != nil {
		// order stays PENDING with no gateway id; the caller can retry
		return ord, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if err := s.repo.SetGatewayOrder(ord.OrderID, gw.ID, gw.Status); err != nil {
		return ord, err
	}
	ord.GatewayOrderID = gw.ID
	ord.PaymentStatus = gw.Status
	return ord, nil
}

func (s *Service) resolveItems(userID int, req CreateRequest) ([]ItemRequest, error) {
	if req.UseCart {
		snapshot, err := s.carts.Snapshot(userID)
		if err != nil {
			return nil, err
		}
		if len(snapshot) == 0 {
			return nil, ErrEmptyOrder
		}
		foodIDs := make([]int, 0, len(snapshot))
		for foodID := range snapshot {
			foodIDs = append(foodIDs, foodID)
		}
		sort.Ints(foodIDs)
		items := make([]ItemRequest, 0, len(foodIDs))
		for _, foodID := range foodIDs {
			items = append(items, ItemRequest{FoodID: foodID, Quantity: snapshot[foodID]})
		}
		return items, nil
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	return req.Items, nil
}

// assemble prices each requested item against the catalog. Any missing food
// aborts the whole order; partial orders are never created.
func (s *Service) assemble(items []ItemRequest) ([]Line, error) {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrEmptyOrder
		}
		food, err := s.lookup.Get(item.FoodID)
		if err != nil {
			if err == catalog.ErrNotFound {
				return nil, fmt.Errorf("%w: food %d", catalog.ErrNotFound, item.FoodID)
			}
			return nil, err
		}
		lines = append(lines, Line{
			FoodID:    food.ID,
			Name:      food.Name,
			Quantity:  item.Quantity,
			UnitPrice: food.Price,
			Total:     LineTotal(item.Quantity, food.Price),
		})
	}
	return lines, nil
}

func (s *Service) Get(orderID string) (Order, error) {
	return s.repo.GetByOrderID(orderID)
}

func (s *Service) ListByCustomer(customerID int) ([]Order, error) {
	return s.repo.ListByCustomer(customerID)
}

func (s *Service) ListByCustomerAndStatus(customerID int, st Status) ([]Order, error) {
	return s.repo.ListByCustomerAndStatus(customerID, st)
}

func (s *Service) ListRecent(limit int) ([]Order, error) {
	return s.repo.ListRecent(limit)
}

func (s *Service) ListByStatus(st Status) ([]Order, error) {
	return s.repo.ListByStatus(st)
}

// ChangeStatus performs an admin-driven transition. PENDING -> PAID is
// reserved for payment verification and rejected here regardless of the
// transition table.
func (s *Service) ChangeStatus(orderID string, next Status, actorID int) (Order, error) {
	if next == StatusPaid {
		return Order{}, ErrInvalidTransition
	}
	current, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		return Order{}, err
	}
	if !current.Status.CanTransitionTo(next) {
		return Order{}, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(orderID, current.Status, next)
	if err != nil {
		return Order{}, err
	}

	s.publishStatusChange(updated.OrderID, current.Status, next, strconv.Itoa(actorID))
	return updated, nil
}

// MarkPaid records a verified payment. It locates the order by gateway id
// first, then by business id, and relies on the repository's conditional
// write for idempotency: a second confirmation of the same payment returns
// the already-paid order with updated=false and no side effects.
func (s *Service) MarkPaid(gatewayOrderID, orderID, paymentID, signature string) (Order, bool, error) {
	ord, err := s.repo.GetByGatewayOrderID(gatewayOrderID)
	if err == ErrNotFound && orderID != "" {
		ord, err = s.repo.GetByOrderID(orderID)
	}
	if err != nil {
		return Order{}, false, err
	}

	updated, applied, err := s.repo.MarkPaid(ord.OrderID, paymentID, signature, time.Now().UTC())
	if err != nil {
		return Order{}, false, err
	}
	if applied {
		s.publishStatusChange(updated.OrderID, StatusPending, StatusPaid, "payment-gateway")
	}
	return updated, applied, nil
}

func (s *Service) Delete(orderID string) error {
	return s.repo.Delete(orderID)
}

func (s *Service) publishStatusChange(orderID string, previous, next Status, actor string) {
	ev := notify.Event{
		Type:           notify.EventStatusChanged,
		OrderID:        orderID,
		PreviousStatus: string(previous),
		NewStatus:      string(next),
		UpdatedAt:      time.Now().UnixMilli(),
		UpdatedBy:      actor,
	}
	// one event for the customer tracking this order, one for dashboards
	s.notifier.Publish(notify.OrderTopic(orderID), ev)
	s.notifier.Publish(notify.TopicAdminOrders, ev)
}
