package order

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrEmptyOrder covers both an empty cart and an empty explicit item
	// list: an order must always contain at least one line.
	ErrEmptyOrder = errors.New("order must contain items")
	// ErrInvalidTransition rejects status changes outside the lifecycle
	// table, including changes lost to a concurrent writer.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrGateway marks remote payment-gateway failures. The local order is
	// already persisted as PENDING when this surfaces and stays retryable.
	ErrGateway = errors.New("payment gateway error")
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusPaid       Status = "PAID"
	StatusProcessing Status = "PROCESSING"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the full lifecycle:
// PENDING -> PAID -> PROCESSING -> DELIVERED | CANCELLED, with CANCELLED
// also reachable from PAID. DELIVERED and CANCELLED are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusPaid},
	StatusPaid:       {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDelivered, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusProcessing, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Line is one priced order entry. Name and UnitPrice are snapshots taken at
// order time; catalog edits never change them afterwards.
type Line struct {
	FoodID    int     `json:"foodId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// BillingDetails is the delivery/contact snapshot stored with the order.
type BillingDetails struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Locality  string `json:"locality,omitempty"`
	Landmark  string `json:"landmark,omitempty"`
	Zip       string `json:"zip,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Order is created once by the assembler; afterwards only the state machine
// touches Status and only payment verification touches the payment fields.
// Everything else is immutable.
type Order struct {
	ID         int64   `json:"-"`
	OrderID    string  `json:"orderId"`
	CustomerID int     `json:"customerId"`
	Lines      []Line  `json:"items"`
	SubTotal   float64 `json:"subTotal"`
	TaxRate    float64 `json:"taxRate"`
	TaxAmount  float64 `json:"taxAmount"`
	GrandTotal float64 `json:"grandTotal"`

	PaymentMode string    `json:"paymentMode,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`

	GatewayOrderID   string     `json:"gatewayOrderId,omitempty"`
	GatewaySignature string     `json:"-"`
	PaymentID        string     `json:"paymentId,omitempty"`
	PaymentStatus    string     `json:"paymentStatus,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`

	Billing *BillingDetails `json:"billing,omitempty"`
}

// newOrderID builds the human-facing order id, e.g. FD250830174501123.
func newOrderID() string {
	return fmt.Sprintf("FD%s%03d", time.Now().Format("060102150405"), rand.Intn(1000))
}
