package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_FindPreferences(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when nothing is stored", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPreferenceService(setupTestDB(t))

		prefs, err := svc.FindPreferences(context.Background())

		require.NoError(t, err)
		assert.Equal(t, docgrab.DefaultPreferences(), prefs)
	})

	t.Run("ignores unknown stored keys", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		_, err := db.ExecContext(ctx, "INSERT INTO preferences (key, value, updated_at) VALUES ('auto-scan', 'true', '2026-01-01T00:00:00Z')")
		require.NoError(t, err)
		svc := sqlite.NewPreferenceService(db)

		prefs, err := svc.FindPreferences(ctx)

		require.NoError(t, err)
		assert.Equal(t, docgrab.DefaultPreferences(), prefs)
	})
}

func TestPreferenceService_SetPreference(t *testing.T) {
	t.Parallel()

	t.Run("stores and overrides values", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPreferenceService(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, svc.SetPreference(ctx, docgrab.PrefShowNotifications, "false"))
		require.NoError(t, svc.SetPreference(ctx, docgrab.PrefExtension, "epub"))
		require.NoError(t, svc.SetPreference(ctx, docgrab.PrefExtension, "DOCX"))

		prefs, err := svc.FindPreferences(ctx)

		require.NoError(t, err)
		assert.False(t, prefs.ShowNotifications)
		assert.Equal(t, ".docx", prefs.Extension)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPreferenceService(setupTestDB(t))

		err := svc.SetPreference(context.Background(), "auto-scan", "true")

		assert.Equal(t, docgrab.EINVALID, docgrab.ErrorCode(err))
	})

	t.Run("rejects malformed values without storing them", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPreferenceService(setupTestDB(t))
		ctx := context.Background()

		err := svc.SetPreference(ctx, docgrab.PrefShowNotifications, "maybe")
		require.Equal(t, docgrab.EINVALID, docgrab.ErrorCode(err))

		prefs, err := svc.FindPreferences(ctx)
		require.NoError(t, err)
		assert.True(t, prefs.ShowNotifications)
	})
}
