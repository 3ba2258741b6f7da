package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/config"
	"github.com/chiplogic-academy/backend/internal/models"
)

// userFacingFailure is the only failure detail the browser ever sees.
const userFacingFailure = "payment failed, please try again"

// Order is a validated registration forwarded by the intake handlers.
type Order struct {
	TransactionID  string // empty = generate server-side
	Offering       string
	Name           string
	Email          string
	Phone          string
	DomainInterest string
	WhatsappOptIn  bool
}

// PaymentResponse is the wire shape shared by dummy-pay and confirm.
type PaymentResponse struct {
	Success     bool    `json:"success"`
	OrderID     string  `json:"orderId,omitempty"`
	AccessToken string  `json:"accessToken,omitempty"`
	MeetingURL  *string `json:"meetingUrl"`
	Message     string  `json:"message,omitempty"`
}

// Store persists access grants. Insert and success-transition must be atomic
// on transaction_id so concurrent submissions cannot double-issue tokens.
type Store interface {
	// InsertPending inserts a pending grant. When the transaction id already
	// exists it returns the stored grant and created=false.
	InsertPending(ctx context.Context, g *models.AccessGrant) (existing *models.AccessGrant, created bool, err error)
	// MarkSuccess transitions pending -> success. updated=false means another
	// writer won; the caller must read back the stored outcome.
	MarkSuccess(ctx context.Context, transactionID, accessToken string, expiresAt time.Time, meetingURL *string, orderID string) (updated bool, err error)
	// MarkFailed transitions pending -> failed (terminal).
	MarkFailed(ctx context.Context, transactionID, reason string) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.AccessGrant, error)
}

// Service is the payment processor: it owns transaction ids, token issuance
// and the grant expiry policy.
type Service struct {
	store     Store
	gateway   Gateway
	payCfg    config.PaymentConfig
	offerings config.OfferingsConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a payment processor.
func NewService(store Store, gateway Gateway, payCfg config.PaymentConfig, offerings config.OfferingsConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		gateway:   gateway,
		payCfg:    payCfg,
		offerings: offerings,
		logger:    logger,
		now:       time.Now,
	}
}

// GrantTTL returns how long issued tokens stay valid.
func (s *Service) GrantTTL() time.Duration {
	hours := s.payCfg.GrantTTLHours
	if hours <= 0 {
		hours = 48
	}
	return time.Duration(hours) * time.Hour
}

func (s *Service) amountCentsFor(offering string) int {
	switch offering {
	case models.OfferingCohort:
		return s.payCfg.CohortPriceINR * 100
	default:
		return s.payCfg.WorkshopPriceINR * 100
	}
}

func (s *Service) meetingURLFor(offering string) *string {
	var u string
	switch offering {
	case models.OfferingCohort:
		u = s.offerings.CohortMeetingURL
	default:
		u = s.offerings.WorkshopMeetingURL
	}
	if u == "" {
		return nil
	}
	return &u
}

// Process runs one payment attempt. Exactly one access token is ever issued
// per transaction id: a duplicate submission, concurrent or not, observes the
// stored outcome instead of a fresh token.
func (s *Service) Process(ctx context.Context, order Order) (PaymentResponse, error) {
	if !models.ValidOffering(order.Offering) {
		return PaymentResponse{}, fmt.Errorf("unknown offering %q", order.Offering)
	}

	txn := order.TransactionID
	if txn == "" {
		txn = uuid.NewString()
	}

	grant := &models.AccessGrant{
		TransactionID:  txn,
		Email:          strings.ToLower(strings.TrimSpace(order.Email)),
		Name:           order.Name,
		Phone:          order.Phone,
		Offering:       order.Offering,
		DomainInterest: order.DomainInterest,
		WhatsappOptIn:  order.WhatsappOptIn,
		Status:         models.GrantStatusPending,
		AmountCents:    s.amountCentsFor(order.Offering),
	}
	existing, created, err := s.store.InsertPending(ctx, grant)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("insert grant: %w", err)
	}
	if !created {
		s.logger.Info("duplicate transaction, returning stored outcome",
			zap.String("transaction_id", txn))
		return s.storedOutcome(existing), nil
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, txn, grant.AmountCents, grant.Email)
	if err != nil {
		s.logger.Error("gateway order failed", zap.String("transaction_id", txn), zap.Error(err))
		if mErr := s.store.MarkFailed(ctx, txn, err.Error()); mErr != nil {
			s.logger.Error("mark failed", zap.String("transaction_id", txn), zap.Error(mErr))
		}
		return PaymentResponse{Success: false, Message: userFacingFailure}, nil
	}

	token, err := generateAccessToken()
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("generate access token: %w", err)
	}
	expiresAt := s.now().Add(s.GrantTTL())
	meetingURL := s.meetingURLFor(order.Offering)

	updated, err := s.store.MarkSuccess(ctx, txn, token, expiresAt, meetingURL, gwOrder.OrderID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("mark success: %w", err)
	}
	if !updated {
		// Lost the race with a concurrent writer; the stored token wins.
		stored, err := s.store.GetByTransactionID(ctx, txn)
		if err != nil || stored == nil {
			return PaymentResponse{}, fmt.Errorf("reload grant %s: %w", txn, err)
		}
		return s.storedOutcome(stored), nil
	}

	return PaymentResponse{
		Success:     true,
		OrderID:     gwOrder.OrderID,
		AccessToken: token,
		MeetingURL:  meetingURL,
	}, nil
}

// Confirm is the verification endpoint for redirect-based gateways. It is an
// idempotent read: it never re-issues tokens.
func (s *Service) Confirm(ctx context.Context, transactionID, email, sig string) (PaymentResponse, error) {
	if !VerifySignature(s.payCfg.CallbackSecret, transactionID, sig) {
		s.logger.Warn("confirm signature mismatch", zap.String("transaction_id", transactionID))
		return PaymentResponse{}, ErrInvalidSignature
	}

	grant, err := s.store.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("load grant: %w", err)
	}
	if grant == nil || !strings.EqualFold(grant.Email, email) {
		return PaymentResponse{}, ErrTransactionNotFound
	}
	return s.storedOutcome(grant), nil
}

func (s *Service) storedOutcome(g *models.AccessGrant) PaymentResponse {
	if g == nil {
		return PaymentResponse{Success: false, Message: userFacingFailure}
	}
	switch g.Status {
	case models.GrantStatusSuccess:
		resp := PaymentResponse{
			Success:    true,
			OrderID:    g.ProviderOrderID,
			MeetingURL: g.MeetingURL,
		}
		if g.AccessToken != nil {
			resp.AccessToken = *g.AccessToken
		}
		return resp
	case models.GrantStatusPending:
		return PaymentResponse{Success: false, Message: "payment is still processing"}
	default:
		return PaymentResponse{Success: false, Message: userFacingFailure}
	}
}
