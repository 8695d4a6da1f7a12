package services

import (
	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/models"
)

// Policy checks run first in every service operation that needs a caller.

func requireIdentity(id auth.Identity) error {
	if id.IsAnonymous() {
		return AuthFailed("Invalid or missing token")
	}
	return nil
}

func requireAdmin(id auth.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return Forbidden("Unauthorized")
	}
	return nil
}

func requireOwner(id auth.Identity, doc *models.Document) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if doc.UserID != id.UserID() {
		return Forbidden("Unauthorized")
	}
	return nil
}

func requireOwnerOrAdmin(id auth.Identity, doc *models.Document) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !id.IsAdmin() && doc.UserID != id.UserID() {
		return Forbidden("Unauthorized")
	}
	return nil
}
