package service

import (
	"context"

	"webblogger/internal/models"
	"webblogger/internal/pagination"
	"webblogger/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// BookmarkService manages each user's reading list.
type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	paging       Paging
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, paging Paging) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, paging: paging}
}

func (s *BookmarkService) BookmarkPost(ctx context.Context, userID, postID uuid.UUID) (err error) {
	span, ctx := startSpan(ctx, "BookmarkService.BookmarkPost", idAttr("post.id", postID))
	defer endSpan(span, &err)

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.bookmarkRepo.Bookmark(ctx, userID, postID)
}

func (s *BookmarkService) RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) (err error) {
	span, ctx := startSpan(ctx, "BookmarkService.RemoveBookmark", idAttr("post.id", postID))
	defer endSpan(span, &err)

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.bookmarkRepo.Remove(ctx, userID, postID)
}

func (s *BookmarkService) GetBookmarks(ctx context.Context, userID uuid.UUID, req pagination.Request[models.PostSortOption]) (_ *pagination.Page[models.Post], err error) {
	req = normalize(s.paging, req)
	span, ctx := startSpan(ctx, "BookmarkService.GetBookmarks",
		attribute.Int("page.number", req.PageNumber),
		attribute.Int("page.size", req.PageSize),
	)
	defer endSpan(span, &err)

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.List(ctx, userID, req)
}

// ClearBookmarks empties the reading list and reports how many entries it held.
func (s *BookmarkService) ClearBookmarks(ctx context.Context, userID uuid.UUID) (_ int64, err error) {
	span, ctx := startSpan(ctx, "BookmarkService.ClearBookmarks")
	defer endSpan(span, &err)

	if err := requireUser(userID); err != nil {
		return 0, err
	}
	removed, err := s.bookmarkRepo.Clear(ctx, userID)
	if err != nil {
		return 0, err
	}
	span.AddAttributes(attribute.Int64("bookmark.removed", removed))
	return removed, nil
}
