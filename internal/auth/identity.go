package auth

import (
	"github.com/franciscosanchezn/docky-api/internal/models"
)

// Identity is the verified subject of an identity token. The zero value is
// the anonymous caller.
type Identity struct {
	userID uint
	role   models.Role
}

// NewIdentity builds an identity for a verified user id and role.
func NewIdentity(userID uint, role models.Role) Identity {
	return Identity{userID: userID, role: role}
}

func (i Identity) UserID() uint { return i.userID }
func (i Identity) Role() models.Role { return i.role }
func (i Identity) IsAdmin() bool { return i.role == models.RoleAdmin }

// IsAnonymous reports whether no verified user is attached.
func (i Identity) IsAnonymous() bool { return i.userID == 0 }
