package payments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/internal/models"
	"github.com/chiplogic-academy/backend/pkg/response"
)

// Handler handles payment confirmation and admin reconciliation endpoints.
type Handler struct {
	svc    *Service
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a payments handler.
func NewHandler(svc *Service, repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, repo: repo, logger: logger}
}

// Confirm handles GET /api/payment/:purpose/confirm?txn&email&sig — the
// redirect target for asynchronous gateways. Safe to call repeatedly.
func (h *Handler) Confirm(c *gin.Context) {
	purpose := c.Param("purpose")
	if !models.ValidOffering(purpose) {
		response.NotFound(c, "unknown offering")
		return
	}
	txn := c.Query("txn")
	email := c.Query("email")
	sig := c.Query("sig")
	if txn == "" || email == "" || sig == "" {
		response.ValidationFailed(c, "txn", "email", "sig")
		return
	}

	resp, err := h.svc.Confirm(c.Request.Context(), txn, email, sig)
	switch {
	case errors.Is(err, ErrInvalidSignature):
		response.Unauthorized(c, "invalid signature")
		return
	case errors.Is(err, ErrTransactionNotFound):
		response.NotFound(c, "transaction not found")
		return
	case err != nil:
		h.logger.Error("confirm failed", zap.String("transaction_id", txn), zap.Error(err))
		response.Internal(c, "confirmation failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListGrants handles GET /api/admin/payments for manual reconciliation.
func (h *Handler) ListGrants(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list grants failed", zap.Error(err))
		response.Internal(c, "failed to list payments")
		return
	}
	response.OK(c, list)
}
