package documents

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OpenMSDQ/msdq/internal/auth"
	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

const maxUploadBytes = 32 << 20

// Handler exposes document attachment endpoints.
type Handler struct {
	service *DocumentService
}

func NewHandler(service *DocumentService) *Handler {
	return &Handler{service: service}
}

// HandleAttach handles POST /api/v1/workflows/:workflowId/documents
func (h *Handler) HandleAttach(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	workflowID, err := uuid.Parse(c.Param("workflowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workflow ID format"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	document, err := h.service.Attach(c.Request.Context(), workflowID, header.Filename, file, header.Size, header.Header.Get("Content-Type"), actor.UserID)
	if err != nil {
		var notFound *model.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(c.Request.Context(), "document attach failed", "workflowID", workflowID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, document)
}

// HandleList handles GET /api/v1/workflows/:workflowId/documents
func (h *Handler) HandleList(c *gin.Context) {
	workflowID, err := uuid.Parse(c.Param("workflowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workflow ID format"})
		return
	}

	docs, err := h.service.ListByWorkflowID(c.Request.Context(), workflowID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// HandleDownload handles GET /api/v1/documents/:key
func (h *Handler) HandleDownload(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	reader, contentType, err := h.service.Open(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		slog.ErrorContext(c.Request.Context(), "document stream failed", "key", key, "error", err)
	}
}
