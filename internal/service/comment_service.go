package service

import (
	"context"

	"webblogger/internal/models"
	"webblogger/internal/pagination"
	"webblogger/internal/repository"
	"webblogger/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	validator   *validation.Validator
	paging      Paging
}

type CreateCommentInput struct {
	ID              uuid.UUID
	PostID          uuid.UUID
	ParentCommentID *uuid.UUID
	AuthorID        uuid.UUID
	Content         string
}

type UpdateCommentInput struct {
	CommentID uuid.UUID
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	validator *validation.Validator,
	paging Paging,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		validator:   validator,
		paging:      paging,
	}
}

// CreateComment validates the comment, then saves it under the post. The post
// is checked before the parent comment.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (_ *models.Comment, err error) {
	span, ctx := startSpan(ctx, "CommentService.CreateComment",
		idAttr("post.id", in.PostID),
		attribute.Bool("comment.is_reply", in.ParentCommentID != nil),
	)
	defer endSpan(span, &err)

	if err := requireUser(in.AuthorID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ID:              in.ID,
		Content:         in.Content,
		AuthorID:        in.AuthorID,
		PostID:          in.PostID,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.validator.Validate(comment); err != nil {
		return nil, err
	}
	return s.commentRepo.Save(ctx, in.PostID, comment)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (_ *models.Comment, err error) {
	span, ctx := startSpan(ctx, "CommentService.UpdateComment", idAttr("comment.id", in.CommentID))
	defer endSpan(span, &err)

	comment := &models.Comment{ID: in.CommentID, Content: in.Content}
	if err := s.validator.Validate(comment); err != nil {
		return nil, err
	}
	return s.commentRepo.Update(ctx, in.CommentID, comment)
}

func (s *CommentService) DeleteComment(ctx context.Context, id uuid.UUID) (err error) {
	span, ctx := startSpan(ctx, "CommentService.DeleteComment", idAttr("comment.id", id))
	defer endSpan(span, &err)

	return s.commentRepo.Delete(ctx, id)
}

func (s *CommentService) GetCommentByID(ctx context.Context, id uuid.UUID) (_ *models.Comment, err error) {
	span, ctx := startSpan(ctx, "CommentService.GetCommentByID", idAttr("comment.id", id))
	defer endSpan(span, &err)

	return s.commentRepo.GetByID(ctx, id)
}

func (s *CommentService) GetPostComments(ctx context.Context, postID uuid.UUID, req pagination.Request[models.CommentSortOption]) (_ *pagination.Page[models.Comment], err error) {
	req = normalize(s.paging, req)
	span, ctx := startSpan(ctx, "CommentService.GetPostComments",
		idAttr("post.id", postID),
		attribute.Int("page.number", req.PageNumber),
		attribute.Int("page.size", req.PageSize),
	)
	defer endSpan(span, &err)

	return s.commentRepo.ListByPost(ctx, postID, req)
}
