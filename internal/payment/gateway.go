package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foodkart/food-order-backend/internal/order"
)

// HTTPGateway talks to the payment processor's REST API. It implements
// order.Gateway. Calls are bounded by both the passed context and the
// client timeout so a stuck gateway cannot hang the order flow.
type HTTPGateway struct {
	baseURL string
	keyID   string
	secret  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, keyID, secret string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
		client:  &http.Client{Timeout: timeout},
	}
}

type gatewayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (order.GatewayOrder, error) {
	body, err := json.Marshal(gatewayOrderRequest{Amount: amountMinor, Currency: currency, Receipt: receipt})
	if err != nil {
		return order.GatewayOrder{}, fmt.Errorf("error encoding gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return order.GatewayOrder{}, fmt.Errorf("error creating gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.secret)

	resp, err := g.client.Do(req)
	if err != nil {
		return order.GatewayOrder{}, fmt.Errorf("error calling payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return order.GatewayOrder{}, fmt.Errorf("payment gateway returned %s", resp.Status)
	}

	var out gatewayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return order.GatewayOrder{}, fmt.Errorf("error decoding gateway response: %w", err)
	}
	return order.GatewayOrder{ID: out.ID, Status: out.Status}, nil
}
