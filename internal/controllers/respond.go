package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/docky-api/internal/middleware"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var statusByKind = map[services.Kind]int{
	services.KindValidation:      http.StatusBadRequest,
	services.KindAuth:            http.StatusUnauthorized,
	services.KindForbidden:       http.StatusForbidden,
	services.KindDeadlineExpired: http.StatusForbidden,
	services.KindNotFound:        http.StatusNotFound,
	services.KindConflict:        http.StatusConflict,
}

// respondError writes the error body for err. Unexpected failures are logged
// and reported as a bare 500.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if status, ok := statusByKind[svcErr.Kind]; ok {
			c.JSON(status, models.NewAPIError(svcErr.Code, svcErr.Message))
			return
		}
	}

	log.WithError(err).WithFields(logrus.Fields{
		"request_id": middleware.RequestIDFrom(c),
		"path":       c.Request.URL.Path,
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, message))
}

// documentID parses the :id path parameter.
func documentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "Invalid document ID")
		return 0, false
	}
	return uint(id), true
}
