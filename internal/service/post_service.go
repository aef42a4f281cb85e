package service

import (
	"context"
	"time"

	"webblogger/internal/models"
	"webblogger/internal/pagination"
	"webblogger/internal/repository"
	"webblogger/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo  repository.PostRepository
	tagRepo   repository.TagRepository
	validator *validation.Validator
	paging    Paging
	now       func() time.Time
}

type CreatePostInput struct {
	// ID is optional; a zero ID is assigned on save.
	ID            uuid.UUID
	Title         string
	Content       string
	CoverImageURL string
	// Status defaults to Published.
	Status models.PostStatus
	// PublishedOn defaults to the current time.
	PublishedOn time.Time
	TagIDs      []uuid.UUID
}

type UpdatePostInput struct {
	PostID        uuid.UUID
	Title         string
	Content       string
	CoverImageURL string
	Status        models.PostStatus
	// TagIDs replaces the tag set when non-nil; an empty slice clears it.
	TagIDs []uuid.UUID
}

type DeletePostInput struct {
	PostID uuid.UUID
	// Mode defaults to DeleteSoft.
	Mode models.DeleteMode
}

type GetLatestPostsInput struct {
	Request pagination.Request[models.PostSortOption]
	// IncludeDeleted lists soft-deleted posts too.
	IncludeDeleted bool
}

func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	validator *validation.Validator,
	paging Paging,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		tagRepo:   tagRepo,
		validator: validator,
		paging:    paging,
		now:       utcNow,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (_ *models.Post, err error) {
	span, ctx := startSpan(ctx, "PostService.CreatePost", attribute.Int("post.tags", len(in.TagIDs)))
	defer endSpan(span, &err)

	post := &models.Post{
		ID:            in.ID,
		Title:         in.Title,
		Content:       in.Content,
		CoverImageURL: in.CoverImageURL,
		Status:        in.Status,
		PublishedOn:   in.PublishedOn,
	}
	if post.Status == "" {
		post.Status = models.PostStatusPublished
	}
	if post.PublishedOn.IsZero() {
		post.PublishedOn = s.now()
	}
	if err := s.validator.Validate(post); err != nil {
		return nil, err
	}

	if len(in.TagIDs) > 0 {
		tags, err := s.tagRepo.ResolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}
	return s.postRepo.Save(ctx, post)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (_ *models.Post, err error) {
	span, ctx := startSpan(ctx, "PostService.UpdatePost", idAttr("post.id", in.PostID))
	defer endSpan(span, &err)

	post := &models.Post{
		ID:            in.PostID,
		Title:         in.Title,
		Content:       in.Content,
		CoverImageURL: in.CoverImageURL,
		Status:        in.Status,
	}
	if post.Status == "" {
		post.Status = models.PostStatusPublished
	}
	if err := s.validator.Validate(post); err != nil {
		return nil, err
	}

	if in.TagIDs != nil {
		tags, err := s.tagRepo.ResolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}
	return s.postRepo.Update(ctx, in.PostID, post)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (err error) {
	mode := in.Mode
	if mode == "" {
		mode = models.DeleteSoft
	}
	span, ctx := startSpan(ctx, "PostService.DeletePost",
		idAttr("post.id", in.PostID),
		attribute.String("post.delete_mode", string(mode)),
	)
	defer endSpan(span, &err)

	return s.postRepo.Delete(ctx, in.PostID, mode)
}

func (s *PostService) GetPostByID(ctx context.Context, id uuid.UUID) (_ *models.Post, err error) {
	span, ctx := startSpan(ctx, "PostService.GetPostByID", idAttr("post.id", id))
	defer endSpan(span, &err)

	return s.postRepo.GetByID(ctx, id)
}

// GetLatestPosts lists posts through the query pipeline. Soft-deleted posts
// are left out unless the input asks for them.
func (s *PostService) GetLatestPosts(ctx context.Context, in GetLatestPostsInput) (_ *pagination.Page[models.Post], err error) {
	req := normalize(s.paging, in.Request)
	span, ctx := startSpan(ctx, "PostService.GetLatestPosts",
		attribute.Int("page.number", req.PageNumber),
		attribute.Int("page.size", req.PageSize),
		attribute.String("page.sort", string(req.SortOption)),
	)
	defer endSpan(span, &err)

	var filter repository.PostFilter
	if !in.IncludeDeleted {
		filter.ExcludeStatuses = []models.PostStatus{models.PostStatusDeleted}
	}
	page, err := s.postRepo.ListLatest(ctx, filter, req)
	if err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int64("page.total", page.TotalCount))
	return page, nil
}

// ViewPost counts one view of the post and returns it with the new total.
func (s *PostService) ViewPost(ctx context.Context, id uuid.UUID) (_ *models.Post, err error) {
	span, ctx := startSpan(ctx, "PostService.ViewPost", idAttr("post.id", id))
	defer endSpan(span, &err)

	return s.postRepo.IncrementViews(ctx, id)
}
