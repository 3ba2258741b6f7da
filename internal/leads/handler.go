package leads

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/internal/models"
	"github.com/chiplogic-academy/backend/pkg/queue"
	"github.com/chiplogic-academy/backend/pkg/response"
	"github.com/chiplogic-academy/backend/pkg/storage"
)

// Handler handles the public lead-capture forms. Accepted submissions are
// persisted, then mirrored to the spreadsheet and acknowledged by email
// asynchronously via the job queue.
type Handler struct {
	repo        *Repository
	queue       *queue.Queue
	s3          *storage.S3 // nil disables brochure presigning
	brochureKey string
	logger      *zap.Logger
}

// NewHandler creates a leads handler.
func NewHandler(repo *Repository, q *queue.Queue, s3 *storage.S3, brochureKey string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, s3: s3, brochureKey: brochureKey, logger: logger}
}

// ContactRequest is the body for POST /api/forms/contact.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

// BrochureRequest is the body for POST /api/forms/brochure.
type BrochureRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// WorkshopInterestRequest is the body for POST /api/forms/workshop.
type WorkshopInterestRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	DomainInterest string `json:"domainInterest"`
	WhatsappOptIn  bool   `json:"whatsappOptIn"`
}

// Contact handles POST /api/forms/contact.
func (h *Handler) Contact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	lead := &models.Lead{
		FormType: models.FormContact,
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Message:  req.Message,
	}
	if !h.accept(c, lead, "Thanks for reaching out!",
		"We received your message and will get back within one working day.") {
		return
	}
	response.Accepted(c, gin.H{"lead_id": lead.ID})
}

// Brochure handles POST /api/forms/brochure. Responds with a time-limited
// download URL for the course brochure.
func (h *Handler) Brochure(c *gin.Context) {
	var req BrochureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	lead := &models.Lead{
		FormType: models.FormBrochure,
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
	}
	if !h.accept(c, lead, "Your VLSI course brochure",
		"Here is the brochure you requested. See the download link on the site.") {
		return
	}

	downloadURL := ""
	if h.s3 != nil && h.brochureKey != "" {
		u, err := h.s3.PresignDownloadURL(c.Request.Context(), h.brochureKey)
		if err != nil {
			h.logger.Warn("brochure presign failed", zap.Error(err))
		} else {
			downloadURL = u
		}
	}
	response.Accepted(c, gin.H{"lead_id": lead.ID, "brochure_url": downloadURL})
}

// WorkshopInterest handles POST /api/forms/workshop.
func (h *Handler) WorkshopInterest(c *gin.Context) {
	var req WorkshopInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	lead := &models.Lead{
		FormType:       models.FormWorkshop,
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		Phone:          req.Phone,
		DomainInterest: req.DomainInterest,
		WhatsappOptIn:  req.WhatsappOptIn,
	}
	if !h.accept(c, lead, "Workshop registration received",
		"You are on the list. Watch your inbox for the session link.") {
		return
	}
	response.Accepted(c, gin.H{"lead_id": lead.ID})
}

// accept persists the lead and enqueues the spreadsheet mirror and the
// acknowledgement email. Queue failures are logged, not surfaced: the lead is
// already stored and the sheet row can be reconciled from it.
func (h *Handler) accept(c *gin.Context, lead *models.Lead, subject, body string) bool {
	if err := h.repo.Create(c.Request.Context(), lead); err != nil {
		h.logger.Error("create lead failed", zap.String("form", lead.FormType), zap.Error(err))
		response.Internal(c, "failed to submit form")
		return false
	}
	h.enqueueFollowups(c.Request.Context(), lead, subject, body)
	return true
}

func (h *Handler) enqueueFollowups(ctx context.Context, lead *models.Lead, subject, body string) {
	if h.queue == nil {
		return
	}
	row := map[string]string{
		"name":            lead.Name,
		"email":           lead.Email,
		"phone":           lead.Phone,
		"message":         lead.Message,
		"domain_interest": lead.DomainInterest,
		"whatsapp_opt_in": boolString(lead.WhatsappOptIn),
		"submitted_at":    lead.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if err := h.queue.EnqueueSheetAppend(ctx, queue.SheetAppendPayload{
		FormType: lead.FormType,
		LeadID:   lead.ID,
		Row:      row,
	}); err != nil {
		h.logger.Error("enqueue sheet append failed", zap.String("lead_id", lead.ID.String()), zap.Error(err))
	}
	if err := h.queue.EnqueueEmail(ctx, queue.EmailPayload{
		EmailType: lead.FormType + "_ack",
		Recipient: lead.Email,
		Name:      lead.Name,
		Subject:   subject,
		BodyHTML:  "<p>Hi " + lead.Name + ",</p><p>" + body + "</p>",
	}); err != nil {
		h.logger.Error("enqueue email failed", zap.String("lead_id", lead.ID.String()), zap.Error(err))
	}
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// List handles GET /api/admin/leads.
func (h *Handler) List(c *gin.Context) {
	formType := c.Query("form_type")
	list, err := h.repo.List(c.Request.Context(), formType, 100)
	if err != nil {
		h.logger.Error("list leads failed", zap.Error(err))
		response.Internal(c, "failed to list leads")
		return
	}
	response.OK(c, list)
}
