package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GatewayOrder is the order-create result from the payment backend.
type GatewayOrder struct {
	OrderID string
}

// Gateway creates a payment order for a registration. Implementations must
// not issue access tokens; that stays with the Service so token issuance is
// idempotent regardless of backend.
type Gateway interface {
	CreateOrder(ctx context.Context, transactionID string, amountCents int, email string) (GatewayOrder, error)
}

// DummyGateway reports success for every well-formed order without touching
// a real backend. Wired only outside production, behind the dummy-pay flag.
type DummyGateway struct{}

// CreateOrder returns a synthetic order id.
func (DummyGateway) CreateOrder(_ context.Context, transactionID string, _ int, _ string) (GatewayOrder, error) {
	return GatewayOrder{OrderID: "dummy_" + uuid.NewString()}, nil
}

// GatewayClient talks to the real payment backend over HTTP. Transport
// errors and 5xx responses are retried with backoff; 4xx responses are not,
// they mean the order itself was rejected.
type GatewayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	retries   int
	client    *http.Client
	logger    *zap.Logger
}

// NewGatewayClient creates an HTTP gateway client.
func NewGatewayClient(baseURL, keyID, keySecret string, retries, timeoutSec int, logger *zap.Logger) *GatewayClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeoutSec <= 0 {
		timeoutSec = 15
	}
	return &GatewayClient{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		retries:   retries,
		client:    &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		logger:    logger,
	}
}

type gatewayOrderRequest struct {
	AmountCents int    `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Email       string `json:"email"`
}

type gatewayOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CreateOrder posts an order to the gateway, retrying transient failures.
func (g *GatewayClient) CreateOrder(ctx context.Context, transactionID string, amountCents int, email string) (GatewayOrder, error) {
	body, err := json.Marshal(gatewayOrderRequest{
		AmountCents: amountCents,
		Currency:    "INR",
		Receipt:     transactionID,
		Email:       email,
	})
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("marshal order: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return GatewayOrder{}, ctx.Err()
			}
		}

		order, retryable, err := g.tryCreateOrder(ctx, body)
		if err == nil {
			return order, nil
		}
		lastErr = err
		if !retryable {
			return GatewayOrder{}, err
		}
		g.logger.Warn("gateway order attempt failed",
			zap.Int("attempt", attempt+1),
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
	}
	return GatewayOrder{}, fmt.Errorf("%w: %v", ErrGateway, lastErr)
}

func (g *GatewayClient) tryCreateOrder(ctx context.Context, body []byte) (GatewayOrder, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return GatewayOrder{}, true, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return GatewayOrder{}, true, fmt.Errorf("gateway status %d", resp.StatusCode)
	}
	var out gatewayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return GatewayOrder{}, true, fmt.Errorf("decode gateway response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return GatewayOrder{}, false, fmt.Errorf("gateway declined: %s", out.Error)
	}
	return GatewayOrder{OrderID: out.ID}, false, nil
}
