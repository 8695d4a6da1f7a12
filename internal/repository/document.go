package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/models"
	"gorm.io/gorm"
)

// DocumentFilter narrows the review listing. Zero value matches everything.
type DocumentFilter struct {
	// OwnerIDs restricts results to these owners when ByOwner is set. An empty
	// set with ByOwner matches nothing.
	OwnerIDs []uint
	ByOwner  bool
	From     *time.Time
	To       *time.Time
}

// ReviewChanges carries the admin-editable fields. Nil means unchanged.
type ReviewChanges struct {
	IsViewed     *bool
	AdminComment *string
}

// DocumentRepository is the document metadata store.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id uint) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]models.Document, error)
	UpdateReview(ctx context.Context, id uint, changes ReviewChanges) (*models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository instance.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", translate(err))
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find document %d: %w", id, translate(err))
	}
	return &doc, nil
}

func (r *documentRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Document, error) {
	docs := []models.Document{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("upload_datetime, id").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents of user %d: %w", ownerID, err)
	}
	return docs, nil
}

func (r *documentRepository) List(ctx context.Context, filter DocumentFilter) ([]models.Document, error) {
	docs := []models.Document{}
	if filter.ByOwner && len(filter.OwnerIDs) == 0 {
		return docs, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Document{})
	if filter.ByOwner {
		query = query.Where("user_id IN ?", filter.OwnerIDs)
	}
	if filter.From != nil {
		query = query.Where("upload_datetime >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("upload_datetime <= ?", filter.To.UTC())
	}

	if err := query.Order("upload_datetime, id").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) UpdateReview(ctx context.Context, id uint, changes ReviewChanges) (*models.Document, error) {
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if changes.IsViewed != nil {
		updates["is_viewed"] = *changes.IsViewed
	}
	if changes.AdminComment != nil {
		updates["admin_comment"] = *changes.AdminComment
	}
	if len(updates) == 0 {
		return doc, nil
	}

	if err := r.db.WithContext(ctx).Model(doc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update document %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}
