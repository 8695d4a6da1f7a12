package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/docky-api/internal/middleware"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminController struct {
	service services.AdminService
	log     logrus.FieldLogger
}

func NewAdminController(service services.AdminService, log logrus.FieldLogger) *AdminController {
	return &AdminController{service: service, log: log}
}

// ReviewRequest is a partial update; absent or null fields are left unchanged.
type ReviewRequest struct {
	IsViewed     *bool   `json:"is_viewed"`
	AdminComment *string `json:"admin_comment"`
}

type ReviewResponse struct {
	Message  string              `json:"message"`
	Document models.DocumentView `json:"document"`
}

// ListDocuments godoc
// @Summary List all documents
// @Description Lists every submission with its uploader, filtered by uploader name and upload date range
// @Tags admin
// @Produce json
// @Param user_name query string false "Case-insensitive fragment of the uploader name"
// @Param start_date query string false "Inclusive lower bound (ISO 8601)"
// @Param end_date query string false "Inclusive upper bound (ISO 8601)"
// @Success 200 {array} models.AdminDocumentView
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/documents [get]
func (ac *AdminController) ListDocuments(c *gin.Context) {
	docs, err := ac.service.ListAll(c.Request.Context(), middleware.IdentityFrom(c), services.DocumentFilters{
		UserName:  c.Query("user_name"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// UpdateDocument godoc
// @Summary Review a document
// @Description Sets the review flag and/or the admin comment
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param request body ReviewRequest true "Fields to change"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/documents/{id} [put]
func (ac *AdminController) UpdateDocument(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	doc, err := ac.service.UpdateDocument(c.Request.Context(), middleware.IdentityFrom(c), id, services.ReviewUpdate{
		IsViewed:     req.IsViewed,
		AdminComment: req.AdminComment,
	})
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{Message: "Updated", Document: doc.View()})
}
