package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/database"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func titles(views []models.AdminDocumentView) []string {
	out := []string{}
	for _, v := range views {
		out = append(out, v.Title)
	}
	return out
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.createUser(t, "Admin", testAdminEmail, "admin123", models.RoleAdmin)
	alice := f.createUser(t, "Alice", "alice@docky.com", "pw", models.RoleUser)
	malik := f.createUser(t, "Malik", "malik@docky.com", "pw", models.RoleUser)
	bob := f.createUser(t, "Bob", "bob@docky.com", "pw", models.RoleUser)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	upload(t, newDocumentService(f, day.Add(9*time.Hour)), identityOf(alice), "Alice Doc", "a.pdf", "a")
	upload(t, newDocumentService(f, day.Add(33*time.Hour)), identityOf(bob), "Bob Doc", "b.pdf", "b")
	upload(t, newDocumentService(f, day.Add(57*time.Hour)), identityOf(malik), "Malik Doc", "m.pdf", "m")

	svc := NewAdminService(f.users, f.docs, f.log)

	testCases := []struct {
		name     string
		filters  DocumentFilters
		expected []string
	}{
		{"no filters", DocumentFilters{}, []string{"Alice Doc", "Bob Doc", "Malik Doc"}},
		{"name fragment ignores case", DocumentFilters{UserName: "ali"}, []string{"Alice Doc", "Malik Doc"}},
		{"name fragment upper case", DocumentFilters{UserName: "BOB"}, []string{"Bob Doc"}},
		{"name without match", DocumentFilters{UserName: "zed"}, []string{}},
		{"start date", DocumentFilters{StartDate: "2025-03-02"}, []string{"Bob Doc", "Malik Doc"}},
		{"end date", DocumentFilters{EndDate: "2025-03-02T09:00:00"}, []string{"Alice Doc", "Bob Doc"}},
		{"both bounds", DocumentFilters{StartDate: "2025-03-02", EndDate: "2025-03-02T23:59:59"}, []string{"Bob Doc"}},
		{"name and date", DocumentFilters{UserName: "ali", StartDate: "2025-03-02"}, []string{"Malik Doc"}},
		{"start after every upload", DocumentFilters{StartDate: "2025-04-01T00:00:00Z"}, []string{}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.ListAll(ctx, identityOf(admin), tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(views))
		})
	}

	t.Run("uploader names are joined", func(t *testing.T) {
		views, err := svc.ListAll(ctx, identityOf(admin), DocumentFilters{UserName: "bob"})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Bob", views[0].UserName)
		assert.Equal(t, "4_1740906000_b.pdf", views[0].Filename)
	})

	t.Run("malformed bounds name the parameter", func(t *testing.T) {
		_, err := svc.ListAll(ctx, identityOf(admin), DocumentFilters{StartDate: "yesterday"})
		assertKind(t, err, KindValidation)
		assert.Contains(t, err.Error(), "start_date")

		_, err = svc.ListAll(ctx, identityOf(admin), DocumentFilters{EndDate: "03/02/2025"})
		assertKind(t, err, KindValidation)
		assert.Contains(t, err.Error(), "end_date")
	})

	t.Run("regular users are refused", func(t *testing.T) {
		_, err := svc.ListAll(ctx, identityOf(alice), DocumentFilters{})
		assertKind(t, err, KindForbidden)
	})
}

func TestListAllWithMissingUploader(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.createUser(t, "Admin", testAdminEmail, "admin123", models.RoleAdmin)

	orphan := &models.Document{UserID: 4242, Title: "Orphan", Filename: "4242_1_x.txt", UploadDatetime: uploadTime}
	require.NoError(t, f.docs.Create(ctx, orphan))

	views, err := NewAdminService(f.users, f.docs, f.log).ListAll(ctx, identityOf(admin), DocumentFilters{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "", views[0].UserName)
}

func TestUpdateDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.createUser(t, "Admin", testAdminEmail, "admin123", models.RoleAdmin)
	alice := f.createUser(t, "Alice", "alice@docky.com", "pw", models.RoleUser)
	doc := upload(t, newDocumentService(f, uploadTime), identityOf(alice), "Alice Doc", "a.pdf", "a")
	svc := NewAdminService(f.users, f.docs, f.log)

	viewed := true
	updated, err := svc.UpdateDocument(ctx, identityOf(admin), doc.ID, ReviewUpdate{IsViewed: &viewed})
	require.NoError(t, err)
	assert.True(t, updated.IsViewed)

	comment := "ok"
	updated, err = svc.UpdateDocument(ctx, identityOf(admin), doc.ID, ReviewUpdate{AdminComment: &comment})
	require.NoError(t, err)
	assert.True(t, updated.IsViewed, "comment-only update must keep is_viewed")
	require.NotNil(t, updated.AdminComment)
	assert.Equal(t, "ok", *updated.AdminComment)

	updated, err = svc.UpdateDocument(ctx, identityOf(admin), doc.ID, ReviewUpdate{})
	require.NoError(t, err)
	assert.True(t, updated.IsViewed)
	assert.Equal(t, "ok", *updated.AdminComment)

	_, err = svc.UpdateDocument(ctx, identityOf(admin), 999, ReviewUpdate{IsViewed: &viewed})
	assertKind(t, err, KindNotFound)

	_, err = svc.UpdateDocument(ctx, identityOf(alice), doc.ID, ReviewUpdate{IsViewed: &viewed})
	assertKind(t, err, KindForbidden)

	mine, err := NewDocumentService(f.docs, f.settings, f.files, f.log).ListMine(ctx, identityOf(alice))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsViewed)
	assert.Equal(t, "ok", *mine[0].AdminComment)
}

func TestAdminServiceStoreFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig())
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "documents"`).WillReturnError(assert.AnError)

	log, _ := test.NewNullLogger()
	svc := NewAdminService(repository.NewUserRepository(db), repository.NewDocumentRepository(db), log)
	_, err = svc.ListAll(context.Background(), auth.NewIdentity(1, models.RoleAdmin), DocumentFilters{})
	assertKind(t, err, KindInternal)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
