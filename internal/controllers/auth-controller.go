package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/franciscosanchezn/docky-api/internal/metrics"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	service services.AuthService
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewAuthController(service services.AuthService, m *metrics.Metrics, log logrus.FieldLogger) *AuthController {
	return &AuthController{service: service, metrics: m, log: log}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

// signupFields is SignupRequest with every value left undecoded.
type signupFields struct {
	Name     json.RawMessage `json:"name"`
	Email    json.RawMessage `json:"email"`
	Password json.RawMessage `json:"password"`
	UserType json.RawMessage `json:"user_type"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Signup godoc
// @Summary Register a user
// @Description Creates a regular user account. Admin accounts cannot be created here.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Account details"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /api/auth/signup [post]
func (ac *AuthController) Signup(c *gin.Context) {
	// Fields are read leniently so a wrong type in one field cannot mask the admin check
	var req signupFields
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	_, err := ac.service.Signup(c.Request.Context(), services.SignupInput{
		Name:     rawString(req.Name),
		Email:    rawString(req.Email),
		Password: rawString(req.Password),
		UserType: rawString(req.UserType),
	})
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "Signup successful"})
}

// Login godoc
// @Summary Log in
// @Description Checks credentials for the given role and returns an identity token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := ac.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		UserType: req.UserType,
	})
	if err != nil {
		switch services.KindOf(err) {
		case services.KindAuth, services.KindForbidden:
			ac.metrics.LoginFailed()
		}
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// rawString returns the decoded value when raw holds a JSON string.
func rawString(raw json.RawMessage) string {
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}
