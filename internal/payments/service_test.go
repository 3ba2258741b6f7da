package payments

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/config"
	"github.com/chiplogic-academy/backend/internal/models"
)

// memStore is an in-memory Store with the same transaction-id semantics as
// the pgx repository.
type memStore struct {
	mu     sync.Mutex
	grants map[string]*models.AccessGrant
}

func newMemStore() *memStore {
	return &memStore{grants: make(map[string]*models.AccessGrant)}
}

func (m *memStore) InsertPending(_ context.Context, g *models.AccessGrant) (*models.AccessGrant, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.grants[g.TransactionID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	cp := *g
	cp.CreatedAt = time.Now()
	m.grants[g.TransactionID] = &cp
	return g, true, nil
}

func (m *memStore) MarkSuccess(_ context.Context, txn, token string, expiresAt time.Time, meetingURL *string, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[txn]
	if !ok || g.Status != models.GrantStatusPending {
		return false, nil
	}
	g.Status = models.GrantStatusSuccess
	g.AccessToken = &token
	g.ExpiresAt = &expiresAt
	g.MeetingURL = meetingURL
	g.ProviderOrderID = orderID
	return true, nil
}

func (m *memStore) MarkFailed(_ context.Context, txn, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.grants[txn]; ok && g.Status == models.GrantStatusPending {
		g.Status = models.GrantStatusFailed
		g.FailureReason = reason
	}
	return nil
}

func (m *memStore) GetByTransactionID(_ context.Context, txn string) (*models.AccessGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[txn]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

type failingGateway struct{ err error }

func (f failingGateway) CreateOrder(context.Context, string, int, string) (GatewayOrder, error) {
	return GatewayOrder{}, f.err
}

func testConfig() (config.PaymentConfig, config.OfferingsConfig) {
	return config.PaymentConfig{
			CallbackSecret:   "test-secret",
			GrantTTLHours:    48,
			WorkshopPriceINR: 99,
			CohortPriceINR:   4999,
		}, config.OfferingsConfig{
			WorkshopMeetingURL: "https://meet.example.com/workshop",
			CohortMeetingURL:   "https://meet.example.com/cohort",
		}
}

func newTestService(store Store, gw Gateway) *Service {
	payCfg, offerings := testConfig()
	return NewService(store, gw, payCfg, offerings, zap.NewNop())
}

var hexTokenRx = regexp.MustCompile(`^[0-9a-f]{64}$`)

func workshopOrder(txn string) Order {
	return Order{
		TransactionID:  txn,
		Offering:       models.OfferingWorkshop,
		Name:           "A",
		Email:          "a@x.com",
		Phone:          "1",
		DomainInterest: "Verification",
	}
}

func TestProcessIssuesHexToken(t *testing.T) {
	svc := newTestService(newMemStore(), DummyGateway{})

	resp, err := svc.Process(context.Background(), workshopOrder(""))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Regexp(t, hexTokenRx, resp.AccessToken)
	require.NotNil(t, resp.MeetingURL)
	assert.Equal(t, "https://meet.example.com/workshop", *resp.MeetingURL)
	assert.NotEmpty(t, resp.OrderID)
}

func TestProcessDuplicateTransactionReturnsStoredOutcome(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	ctx := context.Background()

	first, err := svc.Process(ctx, workshopOrder("txn-1"))
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := svc.Process(ctx, workshopOrder("txn-1"))
	require.NoError(t, err)

	assert.True(t, second.Success)
	assert.Equal(t, first.AccessToken, second.AccessToken, "duplicate submission must not mint a second token")
	assert.Len(t, store.grants, 1)
}

func TestProcessConcurrentSameTransaction(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	ctx := context.Background()

	const n = 16
	responses := make([]PaymentResponse, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = svc.Process(ctx, workshopOrder("txn-race"))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := store.GetByTransactionID(ctx, "txn-race")
	require.NoError(t, err)
	require.NotNil(t, stored.AccessToken)
	for _, resp := range responses {
		assert.True(t, resp.Success)
		assert.Equal(t, *stored.AccessToken, resp.AccessToken, "every caller must observe the single stored token")
	}
}

func TestProcessGatewayFailure(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, failingGateway{err: errors.New("connection refused")})
	ctx := context.Background()

	resp, err := svc.Process(ctx, workshopOrder("txn-fail"))
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Empty(t, resp.AccessToken)
	assert.Equal(t, userFacingFailure, resp.Message, "internal detail must not leak")

	stored, err := store.GetByTransactionID(ctx, "txn-fail")
	require.NoError(t, err)
	assert.Equal(t, models.GrantStatusFailed, stored.Status)
	assert.Nil(t, stored.AccessToken)
}

func TestProcessExpirySetFromTTL(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	_, err := svc.Process(context.Background(), workshopOrder("txn-ttl"))
	require.NoError(t, err)

	stored, err := store.GetByTransactionID(context.Background(), "txn-ttl")
	require.NoError(t, err)
	require.NotNil(t, stored.ExpiresAt)
	assert.Equal(t, base.Add(48*time.Hour), *stored.ExpiresAt)
}

func TestConfirmValidSignature(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	ctx := context.Background()

	first, err := svc.Process(ctx, workshopOrder("txn-c"))
	require.NoError(t, err)

	sig := Sign("test-secret", "txn-c")
	got, err := svc.Confirm(ctx, "txn-c", "a@x.com", sig)
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Equal(t, first.AccessToken, got.AccessToken)

	// Safe to call again: idempotent read, same token.
	again, err := svc.Confirm(ctx, "txn-c", "a@x.com", sig)
	require.NoError(t, err)
	assert.Equal(t, got.AccessToken, again.AccessToken)
}

func TestConfirmRejectsBadSignature(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	ctx := context.Background()

	_, err := svc.Process(ctx, workshopOrder("txn-s"))
	require.NoError(t, err)

	for _, sig := range []string{"", "deadbeef", Sign("wrong-secret", "txn-s"), Sign("test-secret", "txn-other")} {
		_, err := svc.Confirm(ctx, "txn-s", "a@x.com", sig)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	}
}

func TestConfirmEmailMismatch(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	ctx := context.Background()

	_, err := svc.Process(ctx, workshopOrder("txn-e"))
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "txn-e", "other@x.com", Sign("test-secret", "txn-e"))
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = svc.Confirm(ctx, "txn-missing", "a@x.com", Sign("test-secret", "txn-missing"))
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
