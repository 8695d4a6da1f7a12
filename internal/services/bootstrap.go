package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/repository"
)

// BootstrapAdmin creates the sanctioned admin account unless it exists. It
// is the maintenance path for obtaining the admin role; signup never grants it.
// The returned bool reports whether an account was created.
func BootstrapAdmin(ctx context.Context, users repository.UserRepository, name, email, password string) (*models.User, bool, error) {
	if email == "" || password == "" {
		return nil, false, Validation("admin email and password are required")
	}

	existing, err := users.FindByEmailAndRole(ctx, email, models.RoleAdmin)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, Internal(err)
	}

	// Email is unique across roles, so a regular account blocks the admin one
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil, false, Conflict(fmt.Sprintf("%s is already registered as a regular user", email))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, Internal(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, Internal(err)
	}
	if name == "" {
		name = "Admin"
	}

	admin := &models.User{Name: name, Email: email, HashedPassword: hash, Role: models.RoleAdmin}
	if err := users.Create(ctx, admin); err != nil {
		return nil, false, Internal(err)
	}
	return admin, true, nil
}
