package services

import (
	"context"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/franciscosanchezn/docky-api/internal/timex"
	"github.com/sirupsen/logrus"
)

// SettingsService reads and writes the upload deadline
type SettingsService interface {
	// GetDeadline returns nil when no deadline is set.
	GetDeadline(ctx context.Context, id auth.Identity) (*time.Time, error)
	SetDeadline(ctx context.Context, id auth.Identity, deadline string) (*time.Time, error)
}

type settingsService struct {
	settings repository.SettingsRepository
	log      logrus.FieldLogger
}

func NewSettingsService(settings repository.SettingsRepository, log logrus.FieldLogger) SettingsService {
	return &settingsService{settings: settings, log: log}
}

func (s *settingsService) GetDeadline(ctx context.Context, id auth.Identity) (*time.Time, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	deadline, err := currentDeadline(ctx, s.settings)
	if err != nil {
		return nil, Internal(err)
	}
	return deadline, nil
}

func (s *settingsService) SetDeadline(ctx context.Context, id auth.Identity, deadline string) (*time.Time, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	parsed, err := timex.ParseTimestamp(deadline)
	if err != nil {
		return nil, Validation("Invalid datetime format")
	}

	row, err := s.settings.SetDeadline(ctx, parsed)
	if err != nil {
		return nil, Internal(err)
	}

	s.log.WithFields(logrus.Fields{
		"event":    "deadline_set",
		"admin_id": id.UserID(),
		"deadline": parsed.Format(time.RFC3339),
	}).Info("Upload deadline changed")
	return row.DeadlineDatetime, nil
}
