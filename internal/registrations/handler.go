package registrations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/internal/models"
	"github.com/chiplogic-academy/backend/internal/payments"
	"github.com/chiplogic-academy/backend/pkg/response"
)

// Handler is the registration intake: it validates the request and forwards
// it to the payment processor. Validation failures never reach the processor,
// and the PaymentResponse is relayed to the caller unchanged.
type Handler struct {
	payments *payments.Service
	logger   *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(paymentsSvc *payments.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{payments: paymentsSvc, logger: logger}
}

// RegisterWorkshop handles POST /api/payment/workshop/dummy-pay.
func (h *Handler) RegisterWorkshop(c *gin.Context) {
	var req WorkshopRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields...)
		return
	}

	resp, err := h.payments.Process(c.Request.Context(), payments.Order{
		Offering:       models.OfferingWorkshop,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		DomainInterest: req.DomainInterest,
		WhatsappOptIn:  req.WhatsappOptIn,
	})
	if err != nil {
		h.logger.Error("workshop registration failed", zap.Error(err))
		response.Internal(c, "registration failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterCohort handles POST /api/payment/cohort/dummy-pay.
func (h *Handler) RegisterCohort(c *gin.Context) {
	var req CohortEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields...)
		return
	}

	resp, err := h.payments.Process(c.Request.Context(), payments.Order{
		Offering: models.OfferingCohort,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		h.logger.Error("cohort enrollment failed", zap.Error(err))
		response.Internal(c, "enrollment failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}
