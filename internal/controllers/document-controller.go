package controllers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/franciscosanchezn/docky-api/internal/metrics"
	"github.com/franciscosanchezn/docky-api/internal/middleware"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file.
const multipartMemory = 8 << 20

type DocumentController struct {
	service        services.DocumentService
	maxUploadBytes int64
	metrics        *metrics.Metrics
	log            logrus.FieldLogger
}

func NewDocumentController(service services.DocumentService, maxUploadBytes int64, m *metrics.Metrics, log logrus.FieldLogger) *DocumentController {
	return &DocumentController{service: service, maxUploadBytes: maxUploadBytes, metrics: m, log: log}
}

type UploadResponse struct {
	Message  string              `json:"message"`
	Document models.DocumentView `json:"document"`
}

// Upload godoc
// @Summary Upload a document
// @Description Stores a file for the caller. Rejected once the deadline has passed.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Document title"
// @Param description formData string false "Description"
// @Param file formData file true "Document content"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/documents/upload [post]
func (dc *DocumentController) Upload(c *gin.Context) {
	if c.Request.ContentLength > dc.maxUploadBytes {
		badRequest(c, "File too large")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, dc.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(c, "File too large")
			return
		}
		// Anything else leaves the form empty and fails field validation
	}

	var in services.UploadInput
	if form := c.Request.MultipartForm; form != nil {
		if values := form.Value["title"]; len(values) > 0 {
			in.Title = values[0]
		}
		if values := form.Value["description"]; len(values) > 0 {
			description := values[0]
			in.Description = &description
		}
		if files := form.File["file"]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				respondError(c, dc.log, err)
				return
			}
			defer f.Close()
			in.Filename = files[0].Filename
			in.Content = f
		}
	}

	doc, err := dc.service.Upload(c.Request.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}

	dc.metrics.DocumentUploaded()
	c.JSON(http.StatusCreated, UploadResponse{Message: "Upload successful", Document: doc.View()})
}

// ListMine godoc
// @Summary List my documents
// @Description Returns the documents uploaded by the caller
// @Tags documents
// @Produce json
// @Success 200 {array} models.DocumentView
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/documents/my [get]
func (dc *DocumentController) ListMine(c *gin.Context) {
	docs, err := dc.service.ListMine(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Download godoc
// @Summary Download a document
// @Description Streams the file as an attachment. Only the owner may download.
// @Tags documents
// @Produce octet-stream
// @Param id path int true "Document ID"
// @Success 200 {file} file
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/documents/download/{id} [get]
func (dc *DocumentController) Download(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	fc, err := dc.service.Download(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	dc.stream(c, fc, "attachment")
}

// View godoc
// @Summary View a document
// @Description Streams the file inline with a content type inferred from its name. Allowed for the owner and admins.
// @Tags documents
// @Produce octet-stream
// @Param id path int true "Document ID"
// @Success 200 {file} file
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/documents/view/{id} [get]
func (dc *DocumentController) View(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	fc, err := dc.service.View(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	dc.stream(c, fc, "inline")
}

func (dc *DocumentController) stream(c *gin.Context, fc *services.FileContent, disposition string) {
	defer fc.Content.Close()
	headers := map[string]string{
		"Content-Disposition":    mime.FormatMediaType(disposition, map[string]string{"filename": fc.Filename}),
		"X-Content-Type-Options": "nosniff",
	}
	c.DataFromReader(http.StatusOK, fc.Size, fc.ContentType, fc.Content, headers)
}
