package dashboard

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/pkg/response"
)

// deniedBody is the single AccessDenied shape. Unknown email, wrong token
// and expired grant must all produce these exact bytes.
var deniedBody = response.Body{Success: false, Error: "access denied"}

// Handler handles the gated dashboard endpoint.
type Handler struct {
	gate   *Gate
	logger *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(gate *Gate, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gate: gate, logger: logger}
}

// credentials reads the access credentials from the request. The preferred
// carrier is the Authorization header plus the email query parameter; the
// token query parameter is kept as a migration shim for older clients that
// stored both values in localStorage.
func credentials(c *gin.Context) (email, token string) {
	email = c.Query("email")
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return email, parts[1]
		}
	}
	return email, c.Query("token")
}

// Resources handles GET /api/dashboard/resources.
func (h *Handler) Resources(c *gin.Context) {
	email, token := credentials(c)

	resp, err := h.gate.Resources(c.Request.Context(), email, token)
	if errors.Is(err, ErrAccessDenied) {
		c.JSON(http.StatusUnauthorized, deniedBody)
		return
	}
	if err != nil {
		h.logger.Error("resource gate failed", zap.Error(err))
		response.Internal(c, "failed to load resources")
		return
	}
	c.JSON(http.StatusOK, resp)
}
