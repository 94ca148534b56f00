package handler

import (
	"io"

	procapp "github.com/fibreflow/procurement/internal/application/procurement"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BOQHandler serves bill-of-quantities import and review endpoints
type BOQHandler struct {
	BaseHandler
	boqs *procapp.BOQService
}

// NewBOQHandler creates a BOQHandler
func NewBOQHandler(boqs *procapp.BOQService) *BOQHandler {
	return &BOQHandler{boqs: boqs}
}

// RegisterRoutes registers BOQ routes on a project-scoped group
func (h *BOQHandler) RegisterRoutes(rg *gin.RouterGroup) {
	boqs := rg.Group("/boqs")
	{
		boqs.GET("", h.List)
		boqs.POST("/import", h.Requires("boq:write"), h.Import)
		boqs.GET("/:id", h.Get)
		boqs.PUT("/:id/exceptions/:exceptionId/resolve", h.Requires("boq:write"), h.ResolveException)
		boqs.DELETE("/:id", h.Requires("boq:delete"), h.Delete)
	}
}

// ResolveExceptionRequest assigns an item code to an unresolved row
type ResolveExceptionRequest struct {
	ItemCode string `json:"item_code" binding:"required,max=100"`
}

// Import accepts a BOQ upload as multipart form data. The file field
// carries the spreadsheet; title defaults to the file name.
func (h *BOQHandler) Import(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Unable to read file upload")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	boq, err := h.boqs.Import(c.Request.Context(), procapp.ImportInput{
		ProjectID:  projectID,
		Title:      title,
		FileName:   fileHeader.Filename,
		Data:       data,
		UploadedBy: actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, boq)
}

// List returns a page of BOQ headers
func (h *BOQHandler) List(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.boqs.List(c.Request.Context(), projectID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns one BOQ with items and exceptions
func (h *BOQHandler) Get(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOQ ID")
		return
	}

	boq, err := h.boqs.Get(c.Request.Context(), projectID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, boq)
}

// ResolveException assigns an item code to an unresolved mapping row
func (h *BOQHandler) ResolveException(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	boqID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOQ ID")
		return
	}
	exceptionID, err := uuid.Parse(c.Param("exceptionId"))
	if err != nil {
		h.BadRequest(c, "Invalid exception ID")
		return
	}

	var req ResolveExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	boq, err := h.boqs.ResolveException(c.Request.Context(), projectID, boqID, exceptionID, req.ItemCode, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, boq)
}

// Delete removes a BOQ and its children
func (h *BOQHandler) Delete(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOQ ID")
		return
	}

	if err := h.boqs.Delete(c.Request.Context(), projectID, id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
