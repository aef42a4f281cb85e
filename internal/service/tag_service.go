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

type TagService struct {
	tagRepo   repository.TagRepository
	validator *validation.Validator
	paging    Paging
}

type CreateTagInput struct {
	ID            uuid.UUID
	Name          string
	Description   string
	CoverImageURL string
}

type UpdateTagInput struct {
	TagID         uuid.UUID
	Name          string
	Description   string
	CoverImageURL string
}

func NewTagService(tagRepo repository.TagRepository, validator *validation.Validator, paging Paging) *TagService {
	return &TagService{tagRepo: tagRepo, validator: validator, paging: paging}
}

func (s *TagService) CreateTag(ctx context.Context, in CreateTagInput) (_ *models.Tag, err error) {
	span, ctx := startSpan(ctx, "TagService.CreateTag")
	defer endSpan(span, &err)

	tag := &models.Tag{
		ID:            in.ID,
		Name:          in.Name,
		Description:   in.Description,
		CoverImageURL: in.CoverImageURL,
	}
	if err := s.validator.Validate(tag); err != nil {
		return nil, err
	}
	return s.tagRepo.Save(ctx, tag)
}

func (s *TagService) UpdateTag(ctx context.Context, in UpdateTagInput) (_ *models.Tag, err error) {
	span, ctx := startSpan(ctx, "TagService.UpdateTag", idAttr("tag.id", in.TagID))
	defer endSpan(span, &err)

	tag := &models.Tag{
		ID:            in.TagID,
		Name:          in.Name,
		Description:   in.Description,
		CoverImageURL: in.CoverImageURL,
	}
	if err := s.validator.Validate(tag); err != nil {
		return nil, err
	}
	return s.tagRepo.Update(ctx, in.TagID, tag)
}

func (s *TagService) DeleteTag(ctx context.Context, id uuid.UUID) (err error) {
	span, ctx := startSpan(ctx, "TagService.DeleteTag", idAttr("tag.id", id))
	defer endSpan(span, &err)

	return s.tagRepo.Delete(ctx, id)
}

func (s *TagService) GetTagByID(ctx context.Context, id uuid.UUID) (_ *models.Tag, err error) {
	span, ctx := startSpan(ctx, "TagService.GetTagByID", idAttr("tag.id", id))
	defer endSpan(span, &err)

	return s.tagRepo.GetByID(ctx, id)
}

func (s *TagService) GetAllTags(ctx context.Context) (_ []models.Tag, err error) {
	span, ctx := startSpan(ctx, "TagService.GetAllTags")
	defer endSpan(span, &err)

	tags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int("tag.count", len(tags)))
	return tags, nil
}

// GetTagPosts lists the posts carrying the tag. An unknown tag is a
// TagNotFound error; a tag without posts yields the empty page.
func (s *TagService) GetTagPosts(ctx context.Context, tagID uuid.UUID, req pagination.Request[models.PostSortOption]) (_ *pagination.Page[models.Post], err error) {
	req = normalize(s.paging, req)
	span, ctx := startSpan(ctx, "TagService.GetTagPosts",
		idAttr("tag.id", tagID),
		attribute.Int("page.number", req.PageNumber),
		attribute.Int("page.size", req.PageSize),
	)
	defer endSpan(span, &err)

	return s.tagRepo.ListPosts(ctx, tagID, req)
}
