package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/database"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/franciscosanchezn/docky-api/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAdminEmail = "admin@docky.com"

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	docs     repository.DocumentRepository
	settings repository.SettingsRepository
	files    *storage.LocalStorage
	log      *logrus.Logger
	hook     *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: ":memory:", ConnectRetries: 1})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	return &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		docs:     repository.NewDocumentRepository(db),
		settings: repository.NewSettingsRepository(db),
		files:    files,
		log:      log,
		hook:     hook,
	}
}

func (f *fixture) createUser(t *testing.T, name, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, HashedPassword: hash, Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func identityOf(u *models.User) auth.Identity {
	return auth.NewIdentity(u.ID, u.Role)
}

// fixedClock returns a clock stuck at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// failingStorage is a storage whose writes always fail.
type failingStorage struct {
	storage.Storage
	err error
}

func (s failingStorage) Save(context.Context, string, io.Reader) error {
	return s.err
}

// failingDocuments is a document store whose inserts always fail.
type failingDocuments struct {
	repository.DocumentRepository
	err error
}

func (r failingDocuments) Create(context.Context, *models.Document) error {
	return r.err
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "unexpected error %v", err)
}

func TestErrorKinds(t *testing.T) {
	err := Forbidden("Unauthorized")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.ErrForbidden, err.Code)

	cause := errors.New("disk full")
	internal := Internal(cause)
	assert.ErrorIs(t, internal, cause)
	assert.ErrorIs(t, internal, ErrInternal)
	assert.Equal(t, "Internal server error", internal.Message)

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindDeadlineExpired, KindOf(DeadlineExpired("Deadline passed")))
	assert.Equal(t, "deadline_expired", KindDeadlineExpired.String())
}

func TestPolicies(t *testing.T) {
	owner := auth.NewIdentity(1, models.RoleUser)
	other := auth.NewIdentity(2, models.RoleUser)
	admin := auth.NewIdentity(3, models.RoleAdmin)
	doc := &models.Document{UserID: 1}

	assertKind(t, requireIdentity(auth.Identity{}), KindAuth)
	assert.NoError(t, requireIdentity(owner))

	assertKind(t, requireAdmin(owner), KindForbidden)
	assert.NoError(t, requireAdmin(admin))

	assert.NoError(t, requireOwner(owner, doc))
	assertKind(t, requireOwner(admin, doc), KindForbidden)
	assertKind(t, requireOwner(other, doc), KindForbidden)

	assert.NoError(t, requireOwnerOrAdmin(owner, doc))
	assert.NoError(t, requireOwnerOrAdmin(admin, doc))
	assertKind(t, requireOwnerOrAdmin(other, doc), KindForbidden)
	assertKind(t, requireOwnerOrAdmin(auth.Identity{}, doc), KindAuth)
}
