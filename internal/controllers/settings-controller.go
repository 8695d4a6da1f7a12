package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/middleware"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SettingsController struct {
	service services.SettingsService
	log     logrus.FieldLogger
}

func NewSettingsController(service services.SettingsService, log logrus.FieldLogger) *SettingsController {
	return &SettingsController{service: service, log: log}
}

type DeadlineRequest struct {
	DeadlineDatetime *string `json:"deadline_datetime"`
}

type DeadlineResponse struct {
	DeadlineDatetime *time.Time `json:"deadline_datetime"`
}

type DeadlineSetResponse struct {
	Message          string     `json:"message"`
	DeadlineDatetime *time.Time `json:"deadline_datetime"`
}

// GetDeadline godoc
// @Summary Get the upload deadline
// @Description Returns the deadline, or null when uploads are always accepted
// @Tags settings
// @Produce json
// @Success 200 {object} DeadlineResponse
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/settings/deadline [get]
func (sc *SettingsController) GetDeadline(c *gin.Context) {
	deadline, err := sc.service.GetDeadline(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, DeadlineResponse{DeadlineDatetime: deadline})
}

// SetDeadline godoc
// @Summary Set the upload deadline
// @Tags settings
// @Accept json
// @Produce json
// @Param request body DeadlineRequest true "ISO 8601 timestamp; values without a zone are UTC"
// @Success 200 {object} DeadlineSetResponse
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/settings/deadline [post]
func (sc *SettingsController) SetDeadline(c *gin.Context) {
	var req DeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeadlineDatetime == nil {
		badRequest(c, "Invalid datetime format")
		return
	}

	deadline, err := sc.service.SetDeadline(c.Request.Context(), middleware.IdentityFrom(c), *req.DeadlineDatetime)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, DeadlineSetResponse{Message: "Deadline set", DeadlineDatetime: deadline})
}
