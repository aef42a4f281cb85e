package service

import (
	"context"
	"testing"

	"webblogger/internal/models"
	"webblogger/internal/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toggleState simulates the like table for one entity.
func toggleState() *likeRepoStub {
	liked := map[uuid.UUID]bool{}
	repo := noopLikeRepo()
	repo.toggleFn = func(_ context.Context, userID uuid.UUID, entity models.Likeable) (*models.Like, error) {
		if liked[userID] {
			delete(liked, userID)
			entity.SetLikeCount(entity.GetLikeCount() - 1)
			return nil, nil
		}
		liked[userID] = true
		entity.SetLikeCount(entity.GetLikeCount() + 1)
		return models.NewLike(userID, entity.LikeTarget())
	}
	repo.isLikedFn = func(_ context.Context, userID uuid.UUID, _ models.Likeable) (bool, error) {
		return liked[userID], nil
	}
	return repo
}

func TestLikeService_ToggleLike(t *testing.T) {
	t.Parallel()

	svc := NewLikeService(toggleState(), DefaultPaging)
	ctx := context.Background()
	post := &models.Post{ID: uuid.New()}
	user := uuid.New()

	like, err := svc.ToggleLike(ctx, ToggleLikeInput{UserID: user, Entity: post})
	require.NoError(t, err)
	require.NotNil(t, like)
	assert.Equal(t, post.ID, *like.PostID)
	assert.Equal(t, uint(1), post.LikeCount)

	liked, err := svc.IsLiked(ctx, user, post)
	require.NoError(t, err)
	assert.True(t, liked)

	like, err = svc.ToggleLike(ctx, ToggleLikeInput{UserID: user, Entity: post})
	require.NoError(t, err)
	assert.Nil(t, like)
	assert.Zero(t, post.LikeCount)
}

func TestLikeService_ToggleLike_Validation(t *testing.T) {
	t.Parallel()

	repo := noopLikeRepo()
	repo.toggleFn = func(_ context.Context, _ uuid.UUID, _ models.Likeable) (*models.Like, error) {
		t.Error("repository must not be called")
		return nil, nil
	}
	svc := NewLikeService(repo, DefaultPaging)

	_, err := svc.ToggleLike(context.Background(), ToggleLikeInput{Entity: &models.Comment{ID: uuid.New()}})
	assertValidationError(t, err, "UserID")

	_, err = svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: uuid.New()})
	assertValidationError(t, err, "Entity")

	var nilPost *models.Post
	_, err = svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: uuid.New(), Entity: nilPost})
	assertValidationError(t, err, "Entity")
}

func TestLikeService_ReadsRejectMissingEntityAndUser(t *testing.T) {
	t.Parallel()

	repo := noopLikeRepo()
	repo.isLikedFn = func(_ context.Context, _ uuid.UUID, _ models.Likeable) (bool, error) {
		t.Error("repository must not be called")
		return false, nil
	}
	repo.getLikesFn = func(_ context.Context, _ models.Likeable, _ pagination.Request[pagination.Unsorted]) (*pagination.Page[models.Like], error) {
		t.Error("repository must not be called")
		return nil, nil
	}
	svc := NewLikeService(repo, DefaultPaging)
	ctx := context.Background()

	_, err := svc.IsLiked(ctx, uuid.New(), nil)
	assertValidationError(t, err, "Entity")

	var nilComment *models.Comment
	_, err = svc.IsLiked(ctx, uuid.New(), nilComment)
	assertValidationError(t, err, "Entity")

	_, err = svc.IsLiked(ctx, uuid.Nil, &models.Post{ID: uuid.New()})
	assertValidationError(t, err, "UserID")

	_, err = svc.GetEntityLikes(ctx, nil, pagination.NewRequest[pagination.Unsorted](1, 10))
	assertValidationError(t, err, "Entity")
}

func TestLikeService_ToggleLikeByID(t *testing.T) {
	t.Parallel()

	svc := NewLikeService(toggleState(), DefaultPaging)
	target := models.LikeTarget{Kind: models.LikeTargetComment, ID: uuid.New()}

	like, count, err := svc.ToggleLikeByID(context.Background(), uuid.New(), target)
	require.NoError(t, err)
	require.NotNil(t, like)
	require.NotNil(t, like.CommentID)
	assert.Equal(t, target.ID, *like.CommentID)
	assert.Equal(t, uint(1), count)

	_, _, err = svc.ToggleLikeByID(context.Background(), uuid.New(), models.LikeTarget{Kind: "image", ID: uuid.New()})
	assert.ErrorIs(t, err, models.ErrUnknownLikeTarget)
}

func TestLikeService_GetEntityLikes(t *testing.T) {
	t.Parallel()

	repo := noopLikeRepo()
	repo.getLikesFn = func(_ context.Context, _ models.Likeable, req pagination.Request[pagination.Unsorted]) (*pagination.Page[models.Like], error) {
		return nil, models.NewPostNotFoundError("The post you're trying to like was not found")
	}
	svc := NewLikeService(repo, DefaultPaging)

	_, err := svc.GetEntityLikes(context.Background(), &models.Post{ID: uuid.New()}, pagination.NewRequest[pagination.Unsorted](1, 10))
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}
