package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/docky-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error)
	// FindIDsByName returns the ids of users whose display name contains
	// fragment, ignoring case.
	FindIDsByName(ctx context.Context, fragment string) ([]uint, error)
	// NamesByID resolves display names for the given ids. Unknown ids are absent from the map.
	NamesByID(ctx context.Context, ids []uint) (map[uint]string, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find user by id %d: %w", id, translate(err))
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", translate(err))
	}
	return &user, nil
}

func (r *userRepository) FindByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND user_type = ?", email, role).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find %s user by email: %w", role, translate(err))
	}
	return &user, nil
}

func (r *userRepository) FindIDsByName(ctx context.Context, fragment string) ([]uint, error) {
	var ids []uint
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", pattern).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users by name: %w", err)
	}
	return ids, nil
}

func (r *userRepository) NamesByID(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user names: %w", err)
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
