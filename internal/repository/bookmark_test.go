package repository

import (
	"context"
	"testing"

	"webblogger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkRepository_Lifecycle(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewBookmarkRepository(db)
	ctx := context.Background()

	user, stranger := uuid.New(), uuid.New()
	first := createPost(t, db, withTitle("First bookmarked post"), withViews(1))
	second := createPost(t, db, withTitle("Second bookmarked post"), withViews(9))
	createPost(t, db, withTitle("Not bookmarked"))

	require.NoError(t, repo.Bookmark(ctx, user, first.ID))
	require.NoError(t, repo.Bookmark(ctx, user, first.ID), "bookmarking twice is a no-op")
	require.NoError(t, repo.Bookmark(ctx, user, second.ID))
	require.NoError(t, repo.Bookmark(ctx, stranger, second.ID))
	assert.Equal(t, int64(2), countRows(t, db, &models.BookmarkedPost{}, "user_id = ?", user))

	req := postRequest(1, 10)
	req.SortOption = models.PostSortMostViews
	page, err := repo.List(ctx, user, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, second.ID, page.Items[0].ID)

	req.SearchTerm = "first"
	page, err = repo.List(ctx, user, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	require.NoError(t, repo.Remove(ctx, user, first.ID))
	require.NoError(t, repo.Remove(ctx, user, first.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.BookmarkedPost{}, "user_id = ?", user))

	removed, err := repo.Clear(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	empty, err := repo.List(ctx, user, postRequest(1, 10))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCount)
	assert.Equal(t, int64(1), countRows(t, db, &models.BookmarkedPost{}, "user_id = ?", stranger))
}

func TestBookmarkRepository_MissingPost(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	err := NewBookmarkRepository(db).Bookmark(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}
