package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository is the store for the singleton settings row.
type SettingsRepository interface {
	// Get returns the settings row, or ErrNotFound if it was never written.
	Get(ctx context.Context) (*models.Settings, error)
	// SetDeadline creates the row if absent, otherwise overwrites the deadline.
	SetDeadline(ctx context.Context, deadline time.Time) (*models.Settings, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository instance.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.WithContext(ctx).First(&settings, models.SettingsID).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", translate(err))
	}
	return &settings, nil
}

func (r *settingsRepository) SetDeadline(ctx context.Context, deadline time.Time) (*models.Settings, error) {
	utc := deadline.UTC()
	settings := models.Settings{ID: models.SettingsID, DeadlineDatetime: &utc}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"deadline_datetime", "updated_at"}),
		}).
		Create(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save deadline: %w", err)
	}
	return &settings, nil
}
