package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbu-it/website-backend/internal/auth"
	"github.com/nbu-it/website-backend/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCreateThenGet(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("services", model.Record{"title_th": "X", "order": 3})
	require.NoError(t, err)

	id, ok := created.ID()
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, "X", created["title_th"])

	got, err := store.GetByID("services", id)
	require.NoError(t, err)
	assert.Equal(t, "X", got["title_th"])
	assert.EqualValues(t, 3, got["order"])
}

func TestCreate_AssignsDistinctIDs(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Create("news", model.Record{"title_en": "a"})
	require.NoError(t, err)
	second, err := store.Create("news", model.Record{"title_en": "b"})
	require.NoError(t, err)

	firstID, _ := first.ID()
	secondID, _ := second.ID()
	assert.NotEqual(t, firstID, secondID)

	// ids stay above every surviving record even after a delete
	_, err = store.Delete("news", secondID)
	require.NoError(t, err)
	third, err := store.Create("news", model.Record{"title_en": "c"})
	require.NoError(t, err)
	thirdID, _ := third.ID()
	assert.Greater(t, thirdID, firstID)
}

func TestCreate_PayloadIDIgnored(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("faq", model.Record{"id": 999, "question_en": "why"})
	require.NoError(t, err)
	id, _ := created.ID()
	assert.Equal(t, 1, id)
}

func TestUpdate_MergesAndKeepsID(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("services", model.Record{"title_th": "X", "order": 3, "status": "published"})
	require.NoError(t, err)
	id, _ := created.ID()

	updated, err := store.Update("services", id, model.Record{"status": "draft", "id": 42})
	require.NoError(t, err)

	gotID, _ := updated.ID()
	assert.Equal(t, id, gotID)
	assert.Equal(t, "draft", updated["status"])
	assert.Equal(t, "X", updated["title_th"])
	assert.EqualValues(t, 3, updated["order"])

	// persisted state matches the returned merge
	got, err := store.GetByID("services", id)
	require.NoError(t, err)
	assert.Equal(t, "draft", got["status"])
	assert.EqualValues(t, 3, got["order"])
}

func TestUpdate_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Update("news", 123, model.Record{"status": "draft"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	store := newTestStore(t)

	a, _ := store.Create("documents", model.Record{"title_en": "a"})
	b, _ := store.Create("documents", model.Record{"title_en": "b"})
	aID, _ := a.ID()
	bID, _ := b.ID()

	deleted, err := store.Delete("documents", aID)
	require.NoError(t, err)
	assert.Equal(t, "a", deleted["title_en"])

	items, err := store.List("documents")
	require.NoError(t, err)
	require.Len(t, items, 1)
	remainingID, _ := items[0].ID()
	assert.Equal(t, bID, remainingID)

	_, err = store.GetByID("documents", aID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Delete("documents", aID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetByID("announcements", 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_Order(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.Create("news", model.Record{"title_en": "n"})
		require.NoError(t, err)
		_, err = store.Create("faq", model.Record{"question_en": "q"})
		require.NoError(t, err)
	}

	// news lists newest first
	news, err := store.List("news")
	require.NoError(t, err)
	ids := make([]int, len(news))
	for i, r := range news {
		ids[i], _ = r.ID()
	}
	assert.Equal(t, []int{3, 2, 1}, ids)

	// faq lists in id order
	faq, err := store.List("faq")
	require.NoError(t, err)
	ids = ids[:0]
	for _, r := range faq {
		id, _ := r.ID()
		ids = append(ids, id)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestCounts(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create("news", model.Record{"status": "published"})
	require.NoError(t, err)
	_, err = store.Create("news", model.Record{"status": "published"})
	require.NoError(t, err)
	_, err = store.Create("news", model.Record{"status": "draft"})
	require.NoError(t, err)

	total, err := store.Count("news")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	published, err := store.CountByStatus("news", "published")
	require.NoError(t, err)
	assert.Equal(t, 2, published)
}

func TestUnknownResource(t *testing.T) {
	store := newTestStore(t)

	_, err := store.List("widgets")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	digest := auth.HashPassword("password")

	id, err := store.CreateUser("admin", digest, "Administrator", "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	// duplicate usernames are rejected
	_, err = store.CreateUser("admin", digest, "Someone Else", "admin")
	assert.Error(t, err)

	user, err := store.GetUserByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", user.Name)
	assert.Equal(t, digest, user.Password)

	_, err = store.GetUserByCredentials("admin", digest)
	assert.NoError(t, err)
	_, err = store.GetUserByCredentials("admin", auth.HashPassword("wrong"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetUserByCredentials("nobody", digest)
	assert.ErrorIs(t, err, ErrNotFound)

	newDigest := auth.HashPassword("changed")
	require.NoError(t, store.UpdateUserPassword(id, newDigest))
	_, err = store.GetUserByCredentials("admin", digest)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetUserByCredentials("admin", newDigest)
	assert.NoError(t, err)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, EnsureDefaultAdmin(store))
	user, err := store.GetUserByCredentials("admin", auth.HashPassword("password"))
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	// idempotent: a second run must not add another account
	require.NoError(t, EnsureDefaultAdmin(store))
	n, err := store.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
