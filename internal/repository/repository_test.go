package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/franciscosanchezn/docky-api/internal/database"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig())
	require.NoError(t, err)
	return db, mock
}

func createUser(t *testing.T, repo UserRepository, name, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, HashedPassword: "hash", Role: role}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	alice := createUser(t, repo, "Alice", "alice@docky.com", models.RoleUser)
	malik := createUser(t, repo, "Malik", "malik@docky.com", models.RoleUser)
	createUser(t, repo, "Bob", "bob@docky.com", models.RoleUser)
	admin := createUser(t, repo, "Admin", "admin@docky.com", models.RoleAdmin)

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@docky.com", got.Email)
	})

	t.Run("missing id is ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("email lookup is case sensitive", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "ALICE@docky.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("email and role must both match", func(t *testing.T) {
		got, err := repo.FindByEmailAndRole(ctx, "admin@docky.com", models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)

		_, err = repo.FindByEmailAndRole(ctx, "admin@docky.com", models.RoleUser)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Name: "Other", Email: "alice@docky.com", HashedPassword: "x", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("name search ignores case", func(t *testing.T) {
		ids, err := repo.FindIDsByName(ctx, "ALI")
		require.NoError(t, err)
		assert.Equal(t, []uint{alice.ID, malik.ID}, ids)
	})

	t.Run("name search treats wildcards literally", func(t *testing.T) {
		ids, err := repo.FindIDsByName(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("names by id skips unknown ids", func(t *testing.T) {
		names, err := repo.NamesByID(ctx, []uint{alice.ID, 4242})
		require.NoError(t, err)
		assert.Equal(t, map[uint]string{alice.ID: "Alice"}, names)
	})
}

func TestDocumentRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewDocumentRepository(db)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mk := func(owner uint, title string, at time.Time) *models.Document {
		d := &models.Document{UserID: owner, Title: title, Filename: title + ".pdf", UploadDatetime: at}
		require.NoError(t, repo.Create(ctx, d))
		return d
	}
	d1 := mk(1, "one", base)
	d2 := mk(2, "two", base.Add(time.Hour))
	d3 := mk(1, "three", base.Add(2*time.Hour))

	t.Run("new documents are not viewed", func(t *testing.T) {
		got, err := repo.FindByID(ctx, d1.ID)
		require.NoError(t, err)
		assert.False(t, got.IsViewed)
		assert.Nil(t, got.AdminComment)
	})

	t.Run("list by owner", func(t *testing.T) {
		docs, err := repo.ListByOwner(ctx, 1)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, d1.ID, docs[0].ID)
		assert.Equal(t, d3.ID, docs[1].ID)
	})

	t.Run("list by owner with no documents is empty, not nil", func(t *testing.T) {
		docs, err := repo.ListByOwner(ctx, 77)
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	testCases := []struct {
		name     string
		filter   DocumentFilter
		expected []uint
	}{
		{"no filter", DocumentFilter{}, []uint{d1.ID, d2.ID, d3.ID}},
		{"owner set", DocumentFilter{ByOwner: true, OwnerIDs: []uint{2}}, []uint{d2.ID}},
		{"empty owner set", DocumentFilter{ByOwner: true}, nil},
		{"inclusive lower bound", DocumentFilter{From: ptr(base.Add(time.Hour))}, []uint{d2.ID, d3.ID}},
		{"inclusive upper bound", DocumentFilter{To: ptr(base.Add(time.Hour))}, []uint{d1.ID, d2.ID}},
		{"both bounds", DocumentFilter{From: ptr(base.Add(time.Minute)), To: ptr(base.Add(90 * time.Minute))}, []uint{d2.ID}},
		{"bounds in another zone", DocumentFilter{From: ptr(base.Add(2 * time.Hour).In(time.FixedZone("CET", 3600)))}, []uint{d3.ID}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			var ids []uint
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	t.Run("partial review update", func(t *testing.T) {
		viewed := true
		got, err := repo.UpdateReview(ctx, d2.ID, ReviewChanges{IsViewed: &viewed})
		require.NoError(t, err)
		assert.True(t, got.IsViewed)
		assert.Nil(t, got.AdminComment)

		comment := "ok"
		got, err = repo.UpdateReview(ctx, d2.ID, ReviewChanges{AdminComment: &comment})
		require.NoError(t, err)
		assert.True(t, got.IsViewed, "comment-only update must keep the review flag")
		require.NotNil(t, got.AdminComment)
		assert.Equal(t, "ok", *got.AdminComment)

		notViewed := false
		got, err = repo.UpdateReview(ctx, d2.ID, ReviewChanges{IsViewed: &notViewed})
		require.NoError(t, err)
		assert.False(t, got.IsViewed)
		assert.Equal(t, "ok", *got.AdminComment)
	})

	t.Run("review update of missing document", func(t *testing.T) {
		_, err := repo.UpdateReview(ctx, 999, ReviewChanges{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err = repo.SetDeadline(ctx, first)
	require.NoError(t, err)

	second := time.Date(2025, 7, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*3600))
	_, err = repo.SetDeadline(ctx, second)
	require.NoError(t, err)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.DeadlineDatetime)
	assert.True(t, second.Equal(*got.DeadlineDatetime))

	var count int64
	require.NoError(t, db.Model(&models.Settings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "settings must stay a singleton")
}

func TestRepositoryWrapsDriverErrors(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnError(errors.New("db down"))
	_, err := NewUserRepository(db).FindByEmail(ctx, "alice@docky.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.NotErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(`SELECT .* FROM "documents"`).WillReturnError(errors.New("connection reset"))
	_, err = NewDocumentRepository(db).List(ctx, DocumentFilter{})
	assert.ErrorContains(t, err, "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func ptr[T any](v T) *T {
	return &v
}
