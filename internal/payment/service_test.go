package payment

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/foodkart/food-order-backend/internal/order"
)

// fakeOrders mimics the conditional mark-paid semantics of the order layer.
type fakeOrders struct {
	ord   order.Order
	calls int
}

func (f *fakeOrders) MarkPaid(gatewayOrderID, orderID, paymentID, signature string) (order.Order, bool, error) {
	f.calls++
	if gatewayOrderID != f.ord.GatewayOrderID && orderID != f.ord.OrderID {
		return order.Order{}, false, order.ErrNotFound
	}
	if f.ord.Status != order.StatusPending {
		return f.ord, false, nil
	}
	now := time.Now().UTC()
	f.ord.Status = order.StatusPaid
	f.ord.PaymentID = paymentID
	f.ord.PaymentStatus = "paid"
	f.ord.PaidAt = &now
	return f.ord, true, nil
}

func pendingOrder() order.Order {
	return order.Order{OrderID: "FD1", CustomerID: 42, Status: order.StatusPending, GatewayOrderID: "gw_123"}
}

func TestVerifyMarksOrderPaid(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	sig := sign([]byte("gw_123|pay_9"), "test-secret")
	ord, err := service.Verify(VerificationRequest{GatewayOrderID: "gw_123", PaymentID: "pay_9", Signature: sig})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ord.Status != order.StatusPaid {
		t.Fatalf("expected PAID, got %s", ord.Status)
	}
	if ord.PaymentID != "pay_9" || ord.PaymentStatus != "paid" || ord.PaidAt == nil {
		t.Fatalf("expected payment fields recorded, got %+v", ord)
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	sig := sign([]byte("gw_123|pay_9"), "test-secret")
	req := VerificationRequest{GatewayOrderID: "gw_123", PaymentID: "pay_9", Signature: sig}

	if _, err := service.Verify(req); err != nil {
		t.Fatalf("first Verify failed: %v", err)
	}
	ord, err := service.Verify(req)
	if err != nil {
		t.Fatalf("second Verify must succeed without side effects: %v", err)
	}
	if ord.Status != order.StatusPaid {
		t.Fatalf("expected the already-paid order back, got %s", ord.Status)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	_, err := service.Verify(VerificationRequest{GatewayOrderID: "gw_123", PaymentID: "pay_9", Signature: "deadbeef"})
	if err != ErrSignatureMismatch {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
	// the order layer must never be consulted on a bad signature
	if orders.calls != 0 {
		t.Fatalf("expected no MarkPaid call, got %d", orders.calls)
	}
	if orders.ord.Status != order.StatusPending {
		t.Fatalf("expected order untouched, got %s", orders.ord.Status)
	}
}

func TestVerifyUnknownOrder(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	sig := sign([]byte("gw_999|pay_9"), "test-secret")
	_, err := service.Verify(VerificationRequest{GatewayOrderID: "gw_999", PaymentID: "pay_9", Signature: sig})
	if !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected order.ErrNotFound, got %v", err)
	}
}

func capturedBody(gatewayOrderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"status":"captured"}}}}`,
		paymentID, gatewayOrderID))
}

func TestProcessWebhookAppliesCapturedPayment(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	body := capturedBody("gw_123", "pay_9")
	ord, applied, err := service.ProcessWebhook(body, sign(body, "hook-secret"))
	if err != nil {
		t.Fatalf("ProcessWebhook failed: %v", err)
	}
	if !applied || ord.Status != order.StatusPaid {
		t.Fatalf("expected applied PAID order, got %+v applied=%v", ord, applied)
	}
}

func TestProcessWebhookRejectsBadBodySignature(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	body := capturedBody("gw_123", "pay_9")
	sig := sign(body, "hook-secret")
	// verify-call secret must not authenticate webhook bodies
	if _, _, err := service.ProcessWebhook(body, sign(body, "test-secret")); err != ErrSignatureMismatch {
		t.Fatalf("expected ErrSignatureMismatch for wrong secret, got %v", err)
	}
	tampered := append([]byte{}, body...)
	tampered[len(tampered)-2] = ' '
	if _, _, err := service.ProcessWebhook(tampered, sig); err != ErrSignatureMismatch {
		t.Fatalf("expected ErrSignatureMismatch for tampered body, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatalf("expected no MarkPaid call, got %d", orders.calls)
	}
}

func TestProcessWebhookSkipsOtherEvents(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_9","order_id":"gw_123","status":"failed"}}}}`)
	_, applied, err := service.ProcessWebhook(body, sign(body, "hook-secret"))
	if err != nil {
		t.Fatalf("ProcessWebhook failed: %v", err)
	}
	if applied || orders.calls != 0 {
		t.Fatalf("expected non-captured event to be skipped, applied=%v calls=%d", applied, orders.calls)
	}
}

func TestProcessWebhookRejectsMalformedPayload(t *testing.T) {
	orders := &fakeOrders{ord: pendingOrder()}
	service := NewService(orders, "test-secret", "hook-secret")

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{}}}}`)
	if _, _, err := service.ProcessWebhook(body, sign(body, "hook-secret")); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload for missing ids, got %v", err)
	}

	body2 := []byte(`not json`)
	if _, _, err := service.ProcessWebhook(body2, sign(body2, "hook-secret")); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload for invalid json, got %v", err)
	}
}
