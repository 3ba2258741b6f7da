package verify

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/pkg/response"
)

// Handler exposes the deliverability probe to the site forms.
type Handler struct {
	checker *Checker
	logger  *zap.Logger
}

// NewHandler creates a verify handler.
func NewHandler(checker *Checker, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{checker: checker, logger: logger}
}

// Check handles GET /api/email/verify?email=.
func (h *Handler) Check(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.ValidationFailed(c, "email")
		return
	}
	if !h.checker.Enabled() {
		// No upstream configured: report deliverable so forms stay usable.
		response.OK(c, Verdict{Deliverable: true})
		return
	}
	verdict, err := h.checker.Check(c.Request.Context(), email)
	if errors.Is(err, ErrUnknownShape) {
		h.logger.Warn("verifier returned unknown shape", zap.String("email", email))
		response.Internal(c, "verification unavailable")
		return
	}
	if err != nil {
		h.logger.Warn("verifier unavailable", zap.Error(err))
		response.Internal(c, "verification unavailable")
		return
	}
	response.OK(c, verdict)
}
