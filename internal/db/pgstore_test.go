package db

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbu-it/website-backend/internal/auth"
	"github.com/nbu-it/website-backend/internal/model"
)

// newPGTestStore connects to the database named by TEST_DATABASE_URL and
// resets every table. Skipped when the variable is unset, so the suite stays
// runnable without infrastructure.
func newPGTestStore(t *testing.T) Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, Init(url))
	require.NoError(t, RunMigrations("../../migrations"))
	_, err := DB.Exec(`TRUNCATE news, announcements, documents, faq, services, users RESTART IDENTITY;`)
	require.NoError(t, err)
	return NewPGStore()
}

func TestPGStoreIntegration(t *testing.T) {
	store := newPGTestStore(t)

	t.Run("create normalizes driver types", func(t *testing.T) {
		created, err := store.Create("news", model.Record{
			"title_en": "launch",
			"date":     "2026-08-01",
			"featured": true,
			"status":   "published",
		})
		require.NoError(t, err)
		id, ok := created.ID()
		require.True(t, ok)
		assert.Equal(t, "launch", created["title_en"])
		// DATE comes back from the driver as time.Time, flattened to a day string
		assert.Equal(t, "2026-08-01", created["date"])
		assert.Equal(t, true, created["featured"])

		got, err := store.GetByID("news", id)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("unknown payload fields are dropped", func(t *testing.T) {
		created, err := store.Create("documents", model.Record{
			"title_en": "handbook",
			"bogus":    "ignored",
		})
		require.NoError(t, err)
		_, present := created["bogus"]
		assert.False(t, present)

		id, _ := created.ID()
		got, err := store.GetByID("documents", id)
		require.NoError(t, err)
		_, present = got["bogus"]
		assert.False(t, present)
	})

	t.Run("update merges and keeps unspecified columns", func(t *testing.T) {
		created, err := store.Create("services", model.Record{"title_th": "X", "order": 2, "status": "published"})
		require.NoError(t, err)
		id, _ := created.ID()

		updated, err := store.Update("services", id, model.Record{"status": "draft"})
		require.NoError(t, err)
		assert.Equal(t, "draft", updated["status"])
		assert.Equal(t, "X", updated["title_th"])
		assert.Equal(t, 2, updated["order"])

		// a payload with no recognized columns leaves the row untouched
		same, err := store.Update("services", id, model.Record{"id": 99, "bogus": "x"})
		require.NoError(t, err)
		assert.Equal(t, updated, same)

		_, err = store.Update("services", id+100, model.Record{"status": "draft"})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.Update("services", id+100, model.Record{"bogus": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list order and counts", func(t *testing.T) {
		for _, status := range []string{"active", "active", "expired"} {
			_, err := store.Create("announcements", model.Record{"title_en": "n", "status": status})
			require.NoError(t, err)
		}

		items, err := store.List("announcements")
		require.NoError(t, err)
		require.Len(t, items, 3)
		first, _ := items[0].ID()
		last, _ := items[2].ID()
		assert.Greater(t, first, last)

		total, err := store.Count("announcements")
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		active, err := store.CountByStatus("announcements", "active")
		require.NoError(t, err)
		assert.Equal(t, 2, active)
	})

	t.Run("delete returns the removed record", func(t *testing.T) {
		created, err := store.Create("faq", model.Record{"question_en": "why"})
		require.NoError(t, err)
		id, _ := created.ID()

		deleted, err := store.Delete("faq", id)
		require.NoError(t, err)
		assert.Equal(t, "why", deleted["question_en"])

		_, err = store.GetByID("faq", id)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.Delete("faq", id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		digest := auth.HashPassword("password")

		id, err := store.CreateUser("admin", digest, "Administrator", "admin")
		require.NoError(t, err)
		assert.Greater(t, id, 0)

		user, err := store.GetUserByCredentials("admin", digest)
		require.NoError(t, err)
		assert.Equal(t, "Administrator", user.Name)

		_, err = store.GetUserByCredentials("admin", auth.HashPassword("wrong"))
		assert.ErrorIs(t, err, ErrNotFound)

		newDigest := auth.HashPassword("changed")
		require.NoError(t, store.UpdateUserPassword(id, newDigest))
		_, err = store.GetUserByCredentials("admin", newDigest)
		assert.NoError(t, err)

		assert.ErrorIs(t, store.UpdateUserPassword(id+100, newDigest), ErrNotFound)

		n, err := store.CountUsers()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
