package service

import (
	"context"

	"webblogger/internal/models"
	"webblogger/internal/pagination"
	"webblogger/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	paging   Paging
}

type ToggleLikeInput struct {
	UserID uuid.UUID
	Entity models.Likeable
}

func NewLikeService(likeRepo repository.LikeRepository, paging Paging) *LikeService {
	return &LikeService{likeRepo: likeRepo, paging: paging}
}

// ToggleLike likes the entity for the user, or unlikes it when already liked.
// It returns the new like, or nil after an unlike; the entity's counter is
// refreshed in place.
func (s *LikeService) ToggleLike(ctx context.Context, in ToggleLikeInput) (_ *models.Like, err error) {
	if err := requireEntity(in.Entity); err != nil {
		return nil, err
	}
	target := in.Entity.LikeTarget()
	span, ctx := startSpan(ctx, "LikeService.ToggleLike",
		attribute.String("like.kind", string(target.Kind)),
		idAttr("like.target_id", target.ID),
	)
	defer endSpan(span, &err)

	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	like, err := s.likeRepo.Toggle(ctx, in.UserID, in.Entity)
	if err != nil {
		return nil, err
	}
	span.AddAttributes(
		attribute.Bool("like.liked", like != nil),
		attribute.Int("like.count", int(in.Entity.GetLikeCount())),
	)
	return like, nil
}

// ToggleLikeByID toggles a like on the entity identified by target without
// loading it first. It returns the like (nil after an unlike) and the
// committed counter.
func (s *LikeService) ToggleLikeByID(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (*models.Like, uint, error) {
	entity, err := entityFor(target)
	if err != nil {
		return nil, 0, err
	}
	like, err := s.ToggleLike(ctx, ToggleLikeInput{UserID: userID, Entity: entity})
	if err != nil {
		return nil, 0, err
	}
	return like, entity.GetLikeCount(), nil
}

func (s *LikeService) IsLiked(ctx context.Context, userID uuid.UUID, entity models.Likeable) (_ bool, err error) {
	if err := requireEntity(entity); err != nil {
		return false, err
	}
	span, ctx := startSpan(ctx, "LikeService.IsLiked")
	defer endSpan(span, &err)

	if err := requireUser(userID); err != nil {
		return false, err
	}
	return s.likeRepo.IsLiked(ctx, userID, entity)
}

func (s *LikeService) GetEntityLikes(ctx context.Context, entity models.Likeable, req pagination.Request[pagination.Unsorted]) (_ *pagination.Page[models.Like], err error) {
	if err := requireEntity(entity); err != nil {
		return nil, err
	}
	req = normalize(s.paging, req)
	span, ctx := startSpan(ctx, "LikeService.GetEntityLikes",
		attribute.Int("page.number", req.PageNumber),
		attribute.Int("page.size", req.PageSize),
	)
	defer endSpan(span, &err)

	return s.likeRepo.GetLikes(ctx, entity, req)
}

// requireEntity rejects a missing entity, including a typed nil pointer.
func requireEntity(entity models.Likeable) error {
	missing := false
	switch e := entity.(type) {
	case nil:
		missing = true
	case *models.Post:
		missing = e == nil
	case *models.Comment:
		missing = e == nil
	}
	if missing {
		return models.NewValidationError("Entity", "A likeable entity is required.")
	}
	return nil
}

func entityFor(target models.LikeTarget) (models.Likeable, error) {
	switch target.Kind {
	case models.LikeTargetPost:
		return &models.Post{ID: target.ID}, nil
	case models.LikeTargetComment:
		return &models.Comment{ID: target.ID}, nil
	}
	return nil, models.ErrUnknownLikeTarget
}
