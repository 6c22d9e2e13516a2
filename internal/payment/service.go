package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foodkart/food-order-backend/internal/order"
)

var (
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrBadPayload        = errors.New("malformed webhook payload")
)

// VerificationRequest is the confirmation the client (or the gateway via
// webhook) delivers after the customer pays. OrderID is a fallback lookup
// key for orders whose gateway id never got persisted.
type VerificationRequest struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
	OrderID        string `json:"orderId,omitempty"`
}

// Orders is the slice of the order service this package needs: the
// idempotent mark-paid path.
type Orders interface {
	MarkPaid(gatewayOrderID, orderID, paymentID, signature string) (order.Order, bool, error)
}

// Service verifies payment confirmations. Signature checking happens here;
// the status flip itself is the order repository's conditional write, so
// verify calls and webhook deliveries can race or replay safely.
type Service struct {
	orders        Orders
	secret        string
	webhookSecret string
}

func NewService(orders Orders, secret, webhookSecret string) *Service {
	return &Service{orders: orders, secret: secret, webhookSecret: webhookSecret}
}

// Verify checks the signature and marks the order paid. Re-verifying an
// already-paid order succeeds without side effects.
func (s *Service) Verify(req VerificationRequest) (order.Order, error) {
	if !VerifyPaymentSignature(req.GatewayOrderID, req.PaymentID, req.Signature, s.secret) {
		return order.Order{}, ErrSignatureMismatch
	}
	ord, _, err := s.orders.MarkPaid(req.GatewayOrderID, req.OrderID, req.PaymentID, req.Signature)
	return ord, err
}

// webhookEvent mirrors the gateway's delivery envelope.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ProcessWebhook authenticates a gateway-initiated delivery by its body
// signature and applies captured payments. Events other than
// payment.captured are acknowledged and skipped.
func (s *Service) ProcessWebhook(body []byte, signature string) (order.Order, bool, error) {
	if !VerifyWebhookSignature(body, signature, s.webhookSecret) {
		return order.Order{}, false, ErrSignatureMismatch
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return order.Order{}, false, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if ev.Event != "payment.captured" {
		return order.Order{}, false, nil
	}
	entity := ev.Payload.Payment.Entity
	if entity.OrderID == "" || entity.ID == "" {
		return order.Order{}, false, ErrBadPayload
	}

	ord, applied, err := s.orders.MarkPaid(entity.OrderID, "", entity.ID, signature)
	if err != nil {
		return order.Order{}, false, err
	}
	return ord, applied, nil
}
