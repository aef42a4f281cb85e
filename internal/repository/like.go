package repository

import (
	"context"

	"webblogger/internal/cache"
	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// Toggle likes entity for userID when not yet liked and returns the new
	// like; otherwise it removes the like and returns nil. The entity's like
	// counter is refreshed from the committed row either way.
	Toggle(ctx context.Context, userID uuid.UUID, entity models.Likeable) (*models.Like, error)
	IsLiked(ctx context.Context, userID uuid.UUID, entity models.Likeable) (bool, error)
	GetLikes(ctx context.Context, entity models.Likeable, req pagination.Request[pagination.Unsorted]) (*pagination.Page[models.Like], error)
}

// likeColumn binds a target kind to its table and the like foreign key.
type likeColumn struct {
	model    func() any
	fk       string
	notFound func() error
}

var likeColumns = map[models.LikeTargetKind]likeColumn{
	models.LikeTargetPost: {
		model: func() any { return &models.Post{} },
		fk:    "post_id",
		notFound: func() error {
			return models.NewPostNotFoundError("The post you're trying to like was not found")
		},
	},
	models.LikeTargetComment: {
		model: func() any { return &models.Comment{} },
		fk:    "comment_id",
		notFound: func() error {
			return models.NewCommentNotFoundError("The comment you're trying to like was not found")
		},
	},
}

var likeListing = listing[pagination.Unsorted]{
	order:    func(pagination.Unsorted) []string { return []string{"likes.timestamp DESC"} },
	tieBreak: []string{"likes.id ASC"},
}

type likeRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   *observability.RepoLogger
}

// NewLikeRepository creates a new like repository. c may be nil.
func NewLikeRepository(db *gorm.DB, c *cache.Cache) LikeRepository {
	return &likeRepository{db: db, cache: c, log: observability.NewRepoLogger("likes")}
}

func columnFor(target models.LikeTarget) (likeColumn, error) {
	col, ok := likeColumns[target.Kind]
	if !ok {
		return likeColumn{}, models.ErrUnknownLikeTarget
	}
	return col, nil
}

func (r *likeRepository) Toggle(ctx context.Context, userID uuid.UUID, entity models.Likeable) (*models.Like, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := entity.LikeTarget()
	col, err := columnFor(target)
	if err != nil {
		return nil, err
	}

	var (
		like  *models.Like
		count uint
	)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		like, count, txErr = toggle(tx, userID, target, col)
		return txErr
	})
	if err != nil && isUniqueViolation(err) {
		// Another toggle for the same pair inserted first: the two toggles
		// together leave the entity unliked.
		observability.LikeConflicts.WithLabelValues(string(target.Kind)).Inc()
		r.log.LogError(ctx, err, "toggle_conflict")
		like = nil
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			count, txErr = unlike(tx, userID, target, col)
			return txErr
		})
	}
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "toggle")
		return nil, err
	}

	entity.SetLikeCount(count)
	if target.Kind == models.LikeTargetPost {
		r.cache.InvalidatePost(ctx, target.ID)
	}

	outcome := "unliked"
	if like != nil {
		outcome = "liked"
	}
	observability.LikeToggles.WithLabelValues(string(target.Kind), outcome).Inc()
	r.log.LogUpdate(ctx, map[string]any{
		"user_id":    userID,
		"kind":       target.Kind,
		"target_id":  target.ID,
		"outcome":    outcome,
		"like_count": count,
	})
	return like, nil
}

// toggle runs inside one transaction. The target row is locked first so
// toggles on the same entity serialize on their counter.
func toggle(tx *gorm.DB, userID uuid.UUID, target models.LikeTarget, col likeColumn) (*models.Like, uint, error) {
	if _, err := lockedCount(tx, target, col); err != nil {
		return nil, 0, err
	}

	var existing models.Like
	err := tx.Where("user_id = ? AND "+col.fk+" = ?", userID, target.ID).Take(&existing).Error
	switch {
	case err == nil:
		count, err := removeLike(tx, &existing, target, col)
		return nil, count, err
	case !isNotFound(err):
		return nil, 0, err
	}

	like, err := models.NewLike(userID, target)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Create(like).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Model(col.model()).
		Where("id = ?", target.ID).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
		return nil, 0, err
	}
	count, err := lockedCount(tx, target, col)
	return like, count, err
}

// unlike removes the like for the pair if present, leaving the counter alone otherwise.
func unlike(tx *gorm.DB, userID uuid.UUID, target models.LikeTarget, col likeColumn) (uint, error) {
	count, err := lockedCount(tx, target, col)
	if err != nil {
		return 0, err
	}
	var existing models.Like
	err = tx.Where("user_id = ? AND "+col.fk+" = ?", userID, target.ID).Take(&existing).Error
	if isNotFound(err) {
		return count, nil
	}
	if err != nil {
		return 0, err
	}
	return removeLike(tx, &existing, target, col)
}

func removeLike(tx *gorm.DB, like *models.Like, target models.LikeTarget, col likeColumn) (uint, error) {
	if err := tx.Delete(like).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(col.model()).
		Where("id = ? AND like_count > 0", target.ID).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
		return 0, err
	}
	return lockedCount(tx, target, col)
}

// lockedCount reads the target's like counter under a row lock, failing
// with the kind's NotFound error when the target does not exist.
func lockedCount(tx *gorm.DB, target models.LikeTarget, col likeColumn) (uint, error) {
	var row struct{ LikeCount uint }
	err := tx.Model(col.model()).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("like_count").
		Where("id = ?", target.ID).
		Take(&row).Error
	if isNotFound(err) {
		return 0, col.notFound()
	}
	return row.LikeCount, err
}

func (r *likeRepository) IsLiked(ctx context.Context, userID uuid.UUID, entity models.Likeable) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target := entity.LikeTarget()
	col, err := columnFor(target)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND "+col.fk+" = ?", userID, target.ID).
		Count(&count).Error; err != nil {
		return false, storeErr(ctx, err)
	}
	return count > 0, nil
}

// GetLikes lists the likes of entity, newest first. The search term is ignored.
func (r *likeRepository) GetLikes(ctx context.Context, entity models.Likeable, req pagination.Request[pagination.Unsorted]) (*pagination.Page[models.Like], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := entity.LikeTarget()
	col, err := columnFor(target)
	if err != nil {
		return nil, err
	}
	found, err := exists(ctx, r.db, col.model(), target.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, col.notFound()
	}

	base := r.db.WithContext(ctx).Model(&models.Like{}).Where("likes."+col.fk+" = ?", target.ID)
	page, err := run[models.Like](ctx, base, likeListing, req)
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"listing": "entity_likes", "kind": target.Kind, "total": page.TotalCount})
	return page, nil
}
