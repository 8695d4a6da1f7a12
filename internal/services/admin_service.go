package services

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/franciscosanchezn/docky-api/internal/timex"
	"github.com/sirupsen/logrus"
)

// DocumentFilters are the raw query values of the review listing. Empty
// strings mean no filter.
type DocumentFilters struct {
	UserName  string
	StartDate string
	EndDate   string
}

// ReviewUpdate is a partial update; nil fields keep their stored value.
type ReviewUpdate struct {
	IsViewed     *bool
	AdminComment *string
}

// AdminService lets admins review every submission
type AdminService interface {
	ListAll(ctx context.Context, id auth.Identity, filters DocumentFilters) ([]models.AdminDocumentView, error)
	UpdateDocument(ctx context.Context, id auth.Identity, documentID uint, update ReviewUpdate) (*models.Document, error)
}

type adminService struct {
	users     repository.UserRepository
	documents repository.DocumentRepository
	log       logrus.FieldLogger
}

func NewAdminService(users repository.UserRepository, documents repository.DocumentRepository, log logrus.FieldLogger) AdminService {
	return &adminService{users: users, documents: documents, log: log}
}

func (s *adminService) ListAll(ctx context.Context, id auth.Identity, filters DocumentFilters) ([]models.AdminDocumentView, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	var filter repository.DocumentFilter
	if filters.StartDate != "" {
		from, err := timex.ParseTimestamp(filters.StartDate)
		if err != nil {
			return nil, Validation("Invalid start_date format")
		}
		filter.From = &from
	}
	if filters.EndDate != "" {
		to, err := timex.ParseTimestamp(filters.EndDate)
		if err != nil {
			return nil, Validation("Invalid end_date format")
		}
		filter.To = &to
	}
	if filters.UserName != "" {
		ids, err := s.users.FindIDsByName(ctx, filters.UserName)
		if err != nil {
			return nil, Internal(err)
		}
		filter.ByOwner = true
		filter.OwnerIDs = ids
	}

	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, Internal(err)
	}

	owners := make([]uint, 0, len(docs))
	for _, d := range docs {
		owners = append(owners, d.UserID)
	}
	names, err := s.users.NamesByID(ctx, owners)
	if err != nil {
		return nil, Internal(err)
	}

	views := make([]models.AdminDocumentView, 0, len(docs))
	for _, d := range docs {
		// A missing uploader yields an empty name
		views = append(views, d.AdminView(names[d.UserID]))
	}
	return views, nil
}

func (s *adminService) UpdateDocument(ctx context.Context, id auth.Identity, documentID uint, update ReviewUpdate) (*models.Document, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	doc, err := s.documents.UpdateReview(ctx, documentID, repository.ReviewChanges{
		IsViewed:     update.IsViewed,
		AdminComment: update.AdminComment,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(models.ErrDocumentNotFound, "Document not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	s.log.WithFields(logrus.Fields{
		"event":       "document_reviewed",
		"admin_id":    id.UserID(),
		"document_id": doc.ID,
		"is_viewed":   doc.IsViewed,
	}).Info("Document review updated")
	return doc, nil
}
