package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGatewayClientRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_123","status":"created"}`))
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "key", "secret", 2, 5, zap.NewNop())
	order, err := client.CreateOrder(context.Background(), "txn-1", 9900, "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, "order_123", order.OrderID)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGatewayClientExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "key", "secret", 2, 5, zap.NewNop())
	_, err := client.CreateOrder(context.Background(), "txn-1", 9900, "a@x.com")

	assert.ErrorIs(t, err, ErrGateway)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls), "initial attempt plus two retries")
}

func TestGatewayClientDoesNotRetryDeclines(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"amount below minimum"}`))
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "key", "secret", 2, 5, zap.NewNop())
	_, err := client.CreateOrder(context.Background(), "txn-1", 1, "a@x.com")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGateway)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "declines are final")
}
