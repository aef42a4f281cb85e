package service

import (
	"context"
	"errors"
	"testing"

	"webblogger/internal/models"
	"webblogger/internal/pagination"
	"webblogger/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	saveFn           func(context.Context, *models.Post) (*models.Post, error)
	getByIDFn        func(context.Context, uuid.UUID) (*models.Post, error)
	findByIDFn       func(context.Context, uuid.UUID) (*models.Post, error)
	updateFn         func(context.Context, uuid.UUID, *models.Post) (*models.Post, error)
	deleteFn         func(context.Context, uuid.UUID, models.DeleteMode) error
	listLatestFn     func(context.Context, repository.PostFilter, pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error)
	incrementViewsFn func(context.Context, uuid.UUID) (*models.Post, error)
}

func (s *postRepoStub) Save(ctx context.Context, post *models.Post) (*models.Post, error) {
	return s.saveFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.findByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, id uuid.UUID, post *models.Post) (*models.Post, error) {
	return s.updateFn(ctx, id, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uuid.UUID, mode models.DeleteMode) error {
	return s.deleteFn(ctx, id, mode)
}
func (s *postRepoStub) ListLatest(ctx context.Context, filter repository.PostFilter, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
	return s.listLatestFn(ctx, filter, req)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.incrementViewsFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		saveFn:     func(_ context.Context, p *models.Post) (*models.Post, error) { return p, nil },
		getByIDFn:  func(_ context.Context, id uuid.UUID) (*models.Post, error) { return &models.Post{ID: id}, nil },
		findByIDFn: func(_ context.Context, _ uuid.UUID) (*models.Post, error) { return nil, nil },
		updateFn:   func(_ context.Context, _ uuid.UUID, p *models.Post) (*models.Post, error) { return p, nil },
		deleteFn:   func(_ context.Context, _ uuid.UUID, _ models.DeleteMode) error { return nil },
		listLatestFn: func(_ context.Context, _ repository.PostFilter, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
			return pagination.Empty[models.Post](req.PageNumber, req.PageSize), nil
		},
		incrementViewsFn: func(_ context.Context, id uuid.UUID) (*models.Post, error) {
			return &models.Post{ID: id, Views: 1}, nil
		},
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	saveFn        func(context.Context, *models.Tag) (*models.Tag, error)
	getByIDFn     func(context.Context, uuid.UUID) (*models.Tag, error)
	getAllFn      func(context.Context) ([]models.Tag, error)
	updateFn      func(context.Context, uuid.UUID, *models.Tag) (*models.Tag, error)
	deleteFn      func(context.Context, uuid.UUID) error
	listPostsFn   func(context.Context, uuid.UUID, pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error)
	resolveTagsFn func(context.Context, []uuid.UUID) ([]models.Tag, error)
}

func (s *tagRepoStub) Save(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	return s.saveFn(ctx, tag)
}
func (s *tagRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tagRepoStub) GetAll(ctx context.Context) ([]models.Tag, error) {
	return s.getAllFn(ctx)
}
func (s *tagRepoStub) Update(ctx context.Context, id uuid.UUID, tag *models.Tag) (*models.Tag, error) {
	return s.updateFn(ctx, id, tag)
}
func (s *tagRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s *tagRepoStub) ListPosts(ctx context.Context, tagID uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
	return s.listPostsFn(ctx, tagID, req)
}
func (s *tagRepoStub) ResolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	return s.resolveTagsFn(ctx, ids)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		saveFn:    func(_ context.Context, t *models.Tag) (*models.Tag, error) { return t, nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Tag, error) { return &models.Tag{ID: id}, nil },
		getAllFn:  func(_ context.Context) ([]models.Tag, error) { return []models.Tag{}, nil },
		updateFn:  func(_ context.Context, _ uuid.UUID, t *models.Tag) (*models.Tag, error) { return t, nil },
		deleteFn:  func(_ context.Context, _ uuid.UUID) error { return nil },
		listPostsFn: func(_ context.Context, _ uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
			return pagination.Empty[models.Post](req.PageNumber, req.PageSize), nil
		},
		resolveTagsFn: func(_ context.Context, ids []uuid.UUID) ([]models.Tag, error) {
			tags := make([]models.Tag, 0, len(ids))
			for _, id := range ids {
				tags = append(tags, models.Tag{ID: id})
			}
			return tags, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	saveFn       func(context.Context, uuid.UUID, *models.Comment) (*models.Comment, error)
	getByIDFn    func(context.Context, uuid.UUID) (*models.Comment, error)
	updateFn     func(context.Context, uuid.UUID, *models.Comment) (*models.Comment, error)
	deleteFn     func(context.Context, uuid.UUID) error
	listByPostFn func(context.Context, uuid.UUID, pagination.Request[models.CommentSortOption]) (*pagination.Page[models.Comment], error)
}

func (s *commentRepoStub) Save(ctx context.Context, postID uuid.UUID, c *models.Comment) (*models.Comment, error) {
	return s.saveFn(ctx, postID, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Update(ctx context.Context, id uuid.UUID, c *models.Comment) (*models.Comment, error) {
	return s.updateFn(ctx, id, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uuid.UUID, req pagination.Request[models.CommentSortOption]) (*pagination.Page[models.Comment], error) {
	return s.listByPostFn(ctx, postID, req)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		saveFn: func(_ context.Context, postID uuid.UUID, c *models.Comment) (*models.Comment, error) {
			c.PostID = postID
			return c, nil
		},
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		updateFn:  func(_ context.Context, _ uuid.UUID, c *models.Comment) (*models.Comment, error) { return c, nil },
		deleteFn:  func(_ context.Context, _ uuid.UUID) error { return nil },
		listByPostFn: func(_ context.Context, _ uuid.UUID, req pagination.Request[models.CommentSortOption]) (*pagination.Page[models.Comment], error) {
			return pagination.Empty[models.Comment](req.PageNumber, req.PageSize), nil
		},
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn   func(context.Context, uuid.UUID, models.Likeable) (*models.Like, error)
	isLikedFn  func(context.Context, uuid.UUID, models.Likeable) (bool, error)
	getLikesFn func(context.Context, models.Likeable, pagination.Request[pagination.Unsorted]) (*pagination.Page[models.Like], error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID uuid.UUID, entity models.Likeable) (*models.Like, error) {
	return s.toggleFn(ctx, userID, entity)
}
func (s *likeRepoStub) IsLiked(ctx context.Context, userID uuid.UUID, entity models.Likeable) (bool, error) {
	return s.isLikedFn(ctx, userID, entity)
}
func (s *likeRepoStub) GetLikes(ctx context.Context, entity models.Likeable, req pagination.Request[pagination.Unsorted]) (*pagination.Page[models.Like], error) {
	return s.getLikesFn(ctx, entity, req)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn:  func(_ context.Context, _ uuid.UUID, _ models.Likeable) (*models.Like, error) { return nil, nil },
		isLikedFn: func(_ context.Context, _ uuid.UUID, _ models.Likeable) (bool, error) { return false, nil },
		getLikesFn: func(_ context.Context, _ models.Likeable, req pagination.Request[pagination.Unsorted]) (*pagination.Page[models.Like], error) {
			return pagination.Empty[models.Like](req.PageNumber, req.PageSize), nil
		},
	}
}

// bookmarkRepoStub is a stub for repository.BookmarkRepository.
type bookmarkRepoStub struct {
	bookmarkFn func(context.Context, uuid.UUID, uuid.UUID) error
	removeFn   func(context.Context, uuid.UUID, uuid.UUID) error
	listFn     func(context.Context, uuid.UUID, pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error)
	clearFn    func(context.Context, uuid.UUID) (int64, error)
}

func (s *bookmarkRepoStub) Bookmark(ctx context.Context, userID, postID uuid.UUID) error {
	return s.bookmarkFn(ctx, userID, postID)
}
func (s *bookmarkRepoStub) Remove(ctx context.Context, userID, postID uuid.UUID) error {
	return s.removeFn(ctx, userID, postID)
}
func (s *bookmarkRepoStub) List(ctx context.Context, userID uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
	return s.listFn(ctx, userID, req)
}
func (s *bookmarkRepoStub) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.clearFn(ctx, userID)
}

func noopBookmarkRepo() *bookmarkRepoStub {
	return &bookmarkRepoStub{
		bookmarkFn: func(_ context.Context, _, _ uuid.UUID) error { return nil },
		removeFn:   func(_ context.Context, _, _ uuid.UUID) error { return nil },
		listFn: func(_ context.Context, _ uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
			return pagination.Empty[models.Post](req.PageNumber, req.PageSize), nil
		},
		clearFn: func(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil },
	}
}

var (
	_ repository.PostRepository     = (*postRepoStub)(nil)
	_ repository.TagRepository      = (*tagRepoStub)(nil)
	_ repository.CommentRepository  = (*commentRepoStub)(nil)
	_ repository.LikeRepository     = (*likeRepoStub)(nil)
	_ repository.BookmarkRepository = (*bookmarkRepoStub)(nil)
)

// failures returns the field names of a validation error.
func failures(t *testing.T, err error) []string {
	t.Helper()
	require.ErrorIs(t, err, models.ErrValidation)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	fields := make([]string, 0, len(appErr.Failures))
	for _, f := range appErr.Failures {
		fields = append(fields, f.Field)
	}
	return fields
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	assert.Contains(t, failures(t, err), field)
}
