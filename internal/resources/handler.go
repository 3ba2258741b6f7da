package resources

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/internal/models"
	"github.com/chiplogic-academy/backend/pkg/response"
	"github.com/chiplogic-academy/backend/pkg/storage"
)

// Handler handles the admin resource-catalog endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a resources handler. s3 may be nil; uploads are then
// rejected and only link/checklist resources can be created.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// List handles GET /api/admin/resources?offering=workshop.
func (h *Handler) List(c *gin.Context) {
	offering := c.DefaultQuery("offering", models.OfferingWorkshop)
	if !models.ValidOffering(offering) {
		response.BadRequest(c, "unknown offering")
		return
	}
	list, err := h.repo.ListByOffering(c.Request.Context(), offering)
	if err != nil {
		h.logger.Error("list resources failed", zap.Error(err))
		response.Internal(c, "failed to list resources")
		return
	}
	response.OK(c, list)
}

// CreateLinkRequest is the body for POST /api/admin/resources (link types).
type CreateLinkRequest struct {
	Offering  string `json:"offering" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Type      string `json:"type" binding:"required"`
	URL       string `json:"url" binding:"required,url"`
	SortOrder int    `json:"sort_order"`
}

// Create handles POST /api/admin/resources for link and checklist resources.
func (h *Handler) Create(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidOffering(req.Offering) {
		response.BadRequest(c, "unknown offering")
		return
	}
	if models.FileBackedResource(req.Type) {
		response.BadRequest(c, "file-backed resources go through /resources/upload")
		return
	}
	res := &models.Resource{
		Offering:  req.Offering,
		Title:     req.Title,
		Type:      req.Type,
		URL:       req.URL,
		SortOrder: req.SortOrder,
	}
	if err := h.repo.Create(c.Request.Context(), res); err != nil {
		h.logger.Error("create resource failed", zap.Error(err))
		response.Internal(c, "failed to create resource")
		return
	}
	response.Created(c, res)
}

// Upload handles POST /api/admin/resources/upload (multipart: offering,
// title, type, file). The object lands in the gated bucket and is only ever
// served through presigned URLs.
func (h *Handler) Upload(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}
	offering := c.PostForm("offering")
	title := c.PostForm("title")
	resType := c.PostForm("type")
	if !models.ValidOffering(offering) || title == "" || !models.FileBackedResource(resType) {
		response.ValidationFailed(c, "offering", "title", "type")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	if fileHeader.Size > storage.MaxResourceFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateResourceFileType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer f.Close()

	key := storage.ResourceKey(offering, fileHeader.Filename)
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fileHeader.Filename)
	}
	if _, err := h.s3.Upload(c.Request.Context(), key, contentType, f, fileHeader.Size); err != nil {
		h.logger.Error("resource upload failed", zap.String("key", key), zap.Error(err))
		response.Internal(c, "upload failed")
		return
	}

	res := &models.Resource{
		Offering:  offering,
		Title:     title,
		Type:      resType,
		ObjectKey: key,
	}
	if err := h.repo.Create(c.Request.Context(), res); err != nil {
		h.logger.Error("create resource failed", zap.Error(err))
		response.Internal(c, "failed to save resource")
		return
	}
	response.Created(c, res)
}
