package services

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.createUser(t, "Admin", testAdminEmail, "admin123", models.RoleAdmin)
	alice := f.createUser(t, "Alice", "alice@docky.com", "pw", models.RoleUser)
	svc := NewSettingsService(f.settings, f.log)

	deadline, err := svc.GetDeadline(ctx, identityOf(alice))
	require.NoError(t, err)
	assert.Nil(t, deadline)

	_, err = svc.GetDeadline(ctx, auth.Identity{})
	assertKind(t, err, KindAuth)

	_, err = svc.SetDeadline(ctx, identityOf(alice), "2025-06-01T12:00:00")
	assertKind(t, err, KindForbidden)

	_, err = svc.SetDeadline(ctx, identityOf(admin), "next friday")
	assertKind(t, err, KindValidation)

	set, err := svc.SetDeadline(ctx, identityOf(admin), "2025-06-01T12:00:00")
	require.NoError(t, err)
	expected := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, expected.Equal(*set))

	_, err = svc.SetDeadline(ctx, identityOf(admin), "2025-07-01T14:00:00+02:00")
	require.NoError(t, err)

	deadline, err = svc.GetDeadline(ctx, identityOf(alice))
	require.NoError(t, err)
	require.NotNil(t, deadline)
	assert.True(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC).Equal(*deadline))
	assert.Equal(t, time.UTC, deadline.Location())

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "deadline_set", entry.Data["event"])
}
