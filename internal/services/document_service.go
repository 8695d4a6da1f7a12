package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/franciscosanchezn/docky-api/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	defaultContentType = "application/octet-stream"

	// maxStoredNameLen bounds derived names by the common file name limit
	// and the width of the filename column.
	maxStoredNameLen = 255
)

type UploadInput struct {
	Title       string
	Description *string
	// Filename is the client supplied name; only its last element is kept.
	Filename string
	Content  io.Reader
}

// FileContent is an open stored document. Callers must close Content.
type FileContent struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// DocumentService handles the owner side of the document lifecycle
type DocumentService interface {
	Upload(ctx context.Context, id auth.Identity, in UploadInput) (*models.Document, error)
	ListMine(ctx context.Context, id auth.Identity) ([]models.DocumentView, error)
	// Download is restricted to the owner, admins included.
	Download(ctx context.Context, id auth.Identity, documentID uint) (*FileContent, error)
	// View is allowed for the owner and for admins.
	View(ctx context.Context, id auth.Identity, documentID uint) (*FileContent, error)
}

type documentService struct {
	documents repository.DocumentRepository
	settings  repository.SettingsRepository
	files     storage.Storage
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewDocumentService(documents repository.DocumentRepository, settings repository.SettingsRepository, files storage.Storage, log logrus.FieldLogger) DocumentService {
	return &documentService{
		documents: documents,
		settings:  settings,
		files:     files,
		log:       log,
		now:       time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, id auth.Identity, in UploadInput) (*models.Document, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || in.Content == nil || in.Filename == "" {
		return nil, Validation("Missing fields")
	}
	base, err := baseName(in.Filename)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	deadline, err := currentDeadline(ctx, s.settings)
	if err != nil {
		return nil, Internal(err)
	}
	if deadline != nil && now.After(*deadline) {
		return nil, DeadlineExpired("Deadline passed")
	}

	// Owner id first, then epoch seconds, then the client name
	name := storedName(fmt.Sprintf("%d_%d_", id.UserID(), now.Unix()), base)
	if err := s.files.Save(ctx, name, in.Content); err != nil {
		return nil, Internal(err)
	}

	doc := &models.Document{
		UserID:         id.UserID(),
		Title:          in.Title,
		Description:    in.Description,
		Filename:       name,
		UploadDatetime: now,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if rmErr := s.files.Remove(ctx, name); rmErr != nil {
			s.log.WithError(rmErr).WithField("filename", name).Error("Failed to remove orphaned upload")
		}
		return nil, Internal(err)
	}

	s.log.WithFields(logrus.Fields{
		"event":       "upload",
		"user_id":     id.UserID(),
		"document_id": doc.ID,
		"filename":    name,
	}).Info("Document uploaded")
	return doc, nil
}

func (s *documentService) ListMine(ctx context.Context, id auth.Identity) ([]models.DocumentView, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByOwner(ctx, id.UserID())
	if err != nil {
		return nil, Internal(err)
	}

	views := make([]models.DocumentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, d.View())
	}
	return views, nil
}

func (s *documentService) Download(ctx context.Context, id auth.Identity, documentID uint) (*FileContent, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(id, doc); err != nil {
		return nil, err
	}
	return s.open(ctx, doc)
}

func (s *documentService) View(ctx context.Context, id auth.Identity, documentID uint) (*FileContent, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(id, doc); err != nil {
		return nil, err
	}
	return s.open(ctx, doc)
}

func (s *documentService) find(ctx context.Context, documentID uint) (*models.Document, error) {
	doc, err := s.documents.FindByID(ctx, documentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(models.ErrDocumentNotFound, "Document not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return doc, nil
}

func (s *documentService) open(ctx context.Context, doc *models.Document) (*FileContent, error) {
	obj, err := s.files.Open(ctx, doc.Filename)
	if errors.Is(err, storage.ErrNotExist) {
		s.log.WithFields(logrus.Fields{"document_id": doc.ID, "filename": doc.Filename}).
			Warn("Document record has no stored file")
		return nil, NotFound(models.ErrFileMissing, "File not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return &FileContent{
		Filename:    doc.Filename,
		ContentType: contentType(doc.Filename),
		Size:        obj.Size,
		Content:     obj,
	}, nil
}

// baseName reduces a client supplied path to its final element.
func baseName(filename string) (string, error) {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == ".." || base == "/" || strings.ContainsRune(base, 0) {
		return "", Validation("Invalid file name")
	}
	return base, nil
}

// storedName joins prefix and base, shortening the stem of base so the result
// fits maxStoredNameLen bytes. The extension is kept when there is room for it.
func storedName(prefix, base string) string {
	budget := maxStoredNameLen - len(prefix)
	if len(base) <= budget {
		return prefix + base
	}
	ext := path.Ext(base)
	if len(ext) >= budget {
		ext = ""
	}
	stem := truncateUTF8(strings.TrimSuffix(base, ext), budget-len(ext))
	return prefix + stem + ext
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func contentType(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return defaultContentType
}

func currentDeadline(ctx context.Context, settings repository.SettingsRepository) (*time.Time, error) {
	row, err := settings.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if row.DeadlineDatetime == nil {
		return nil, nil
	}
	deadline := row.DeadlineDatetime.UTC()
	return &deadline, nil
}
