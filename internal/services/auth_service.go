package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// TokenIssuer signs identity tokens for authenticated users.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uint) (string, error)
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	UserType string
}

type LoginInput struct {
	Email    string
	Password string
	UserType string
}

type LoginResult struct {
	Token    string      `json:"token"`
	UserType models.Role `json:"user_type"`
	Name     string      `json:"name"`
}

// AuthService registers users and authenticates them
type AuthService interface {
	// Signup creates a user account. Self-service admin accounts are refused.
	Signup(ctx context.Context, in SignupInput) (*models.User, error)
	// Login checks credentials for the (email, role) pair and issues a token.
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}

type authService struct {
	users      repository.UserRepository
	issuer     TokenIssuer
	adminEmail string
	log        logrus.FieldLogger
}

// NewAuthService creates a new AuthService. adminEmail is the only address
// allowed to log in with the admin role.
func NewAuthService(users repository.UserRepository, issuer TokenIssuer, adminEmail string, log logrus.FieldLogger) AuthService {
	return &authService{users: users, issuer: issuer, adminEmail: adminEmail, log: log}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	// Role is checked before anything else so an admin request is always 403
	role, ok := models.ParseRole(in.UserType)
	if ok && role == models.RoleAdmin {
		return nil, Forbidden("Admin signup is not allowed")
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, Validation("Missing fields")
	}
	if !ok {
		return nil, Validation("Invalid user_type")
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, Conflict("Email already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, Internal(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, Internal(err)
	}

	user := &models.User{
		Name:           in.Name,
		Email:          in.Email,
		HashedPassword: hash,
		Role:           models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("Email already exists")
		}
		return nil, Internal(err)
	}

	s.log.WithFields(logrus.Fields{"event": "signup", "user_id": user.ID}).Info("User registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	role, ok := models.ParseRole(in.UserType)
	if ok && role == models.RoleAdmin && in.Email != s.adminEmail {
		s.loginFailed(in.Email, role, "admin email not sanctioned")
		return nil, Forbidden("Unauthorized admin login")
	}
	if !ok || in.Email == "" || in.Password == "" {
		s.loginFailed(in.Email, role, "malformed request")
		return nil, AuthFailed("Invalid credentials")
	}

	// The same email under another role is a different account
	user, err := s.users.FindByEmailAndRole(ctx, in.Email, role)
	if errors.Is(err, repository.ErrNotFound) {
		s.loginFailed(in.Email, role, "no such account")
		return nil, AuthFailed("Invalid credentials")
	}
	if err != nil {
		return nil, Internal(err)
	}

	match, err := auth.CheckPassword(user.HashedPassword, in.Password)
	if err != nil {
		return nil, Internal(err)
	}
	if !match {
		s.loginFailed(in.Email, role, "password mismatch")
		return nil, AuthFailed("Invalid credentials")
	}

	token, err := s.issuer.Issue(ctx, user.ID)
	if err != nil {
		return nil, Internal(err)
	}

	s.log.WithFields(logrus.Fields{"event": "login", "user_id": user.ID, "role": user.Role}).Info("User logged in")
	return &LoginResult{Token: token, UserType: user.Role, Name: user.Name}, nil
}

func (s *authService) loginFailed(email string, role models.Role, reason string) {
	s.log.WithFields(logrus.Fields{
		"event":  "login_failed",
		"email":  maskEmail(email),
		"role":   role,
		"reason": reason,
	}).Warn("Login rejected")
}

// maskEmail keeps the domain and the first character of the local part.
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
