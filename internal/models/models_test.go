package models

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesResource(t *testing.T) {
	t.Parallel()

	err := NewCommentNotFoundError("The comment you're replying to was not found")

	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrPostNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "The comment you're replying to was not found", err.Error())
}

func TestAppError_IsThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("create comment: %w", NewPostNotFoundError("missing"))
	assert.ErrorIs(t, wrapped, ErrPostNotFound)

	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ResourcePost, appErr.Resource)
}

func TestAppError_ValidationCarriesAllFailures(t *testing.T) {
	t.Parallel()

	err := NewValidationFailedError([]FieldFailure{
		{Field: "Title", Message: "Title is required."},
		{Field: "Content", Message: "Content is required."},
	})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, err.Failures, 2)
	assert.Contains(t, err.Error(), "Title: Title is required.")
	assert.Contains(t, err.Error(), "Content: Content is required.")
}

func TestAppError_InternalUnwraps(t *testing.T) {
	t.Parallel()

	err := NewInternalError(context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNewLike_BindsMatchingForeignKey(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	post := &Post{ID: uuid.New()}
	comment := &Comment{ID: uuid.New()}

	postLike, err := NewLike(userID, post.LikeTarget())
	require.NoError(t, err)
	require.NotNil(t, postLike.PostID)
	assert.Nil(t, postLike.CommentID)
	assert.Equal(t, post.ID, *postLike.PostID)

	commentLike, err := NewLike(userID, comment.LikeTarget())
	require.NoError(t, err)
	require.NotNil(t, commentLike.CommentID)
	assert.Nil(t, commentLike.PostID)

	target, err := commentLike.Target()
	require.NoError(t, err)
	assert.Equal(t, LikeTarget{Kind: LikeTargetComment, ID: comment.ID}, target)

	_, err = NewLike(userID, LikeTarget{Kind: "image", ID: uuid.New()})
	assert.ErrorIs(t, err, ErrUnknownLikeTarget)
}

func TestLike_BeforeSaveRejectsAmbiguousTarget(t *testing.T) {
	t.Parallel()

	postID, commentID := uuid.New(), uuid.New()

	assert.ErrorIs(t, (&Like{}).BeforeSave(nil), ErrLikeTarget)
	assert.ErrorIs(t, (&Like{PostID: &postID, CommentID: &commentID}).BeforeSave(nil), ErrLikeTarget)
	assert.NoError(t, (&Like{PostID: &postID}).BeforeSave(nil))
}

func TestPostStatus_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, PostStatusPublished.Valid())
	assert.True(t, PostStatusDraft.Valid())
	assert.True(t, PostStatusDeleted.Valid())
	assert.False(t, PostStatus("Archived").Valid())
}
