package repository

import (
	"context"
	"fmt"
	"time"

	"webblogger/internal/cache"
	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostFilter restricts the candidate set of a latest-posts listing.
// Empty filters admit every post.
type PostFilter struct {
	ExcludeStatuses []models.PostStatus
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Save(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// FindByID is the optional lookup: (nil, nil) when the post does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Update(ctx context.Context, id uuid.UUID, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID, mode models.DeleteMode) error
	ListLatest(ctx context.Context, filter PostFilter, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error)
	IncrementViews(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   *observability.RepoLogger
}

// NewPostRepository creates a new post repository. c may be nil.
func NewPostRepository(db *gorm.DB, c *cache.Cache) PostRepository {
	return &postRepository{db: db, cache: c, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "create")
		return nil, err
	}
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "tags": len(post.Tags)})
	return post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewPostNotFoundError("The post you're looking for was not found")
	}
	return post, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post models.Post
	err := r.cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).Preload("Tags").First(&post, "id = ?", id).Error
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(ctx, err)
	}
	r.log.LogRead(ctx, map[string]any{"post_id": id})
	return &post, nil
}

// Update overwrites the mutable fields of the post with id and stamps
// LastEditedOn. A non-nil post.Tags replaces the tag set.
func (r *postRepository) Update(ctx context.Context, id uuid.UUID, post *models.Post) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return models.NewPostNotFoundError(fmt.Sprintf("No post was found with the ID: %s", id))
			}
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&updated).Select("title", "content", "status", "cover_image_url", "last_edited_on").
			Updates(&models.Post{
				Title:         post.Title,
				Content:       post.Content,
				Status:        post.Status,
				CoverImageURL: post.CoverImageURL,
				LastEditedOn:  &now,
			}).Error; err != nil {
			return err
		}

		if post.Tags != nil {
			if err := tx.Model(&updated).Association("Tags").Replace(post.Tags); err != nil {
				return err
			}
		}
		return tx.Preload("Tags").First(&updated, "id = ?", id).Error
	})
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "update")
		return nil, err
	}

	r.cache.InvalidatePost(ctx, id)
	r.log.LogUpdate(ctx, map[string]any{"post_id": id})
	return &updated, nil
}

// Delete flips the status to Deleted in soft mode. Hard mode removes the post
// together with its comments, likes, bookmarks and tag links.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID, mode models.DeleteMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return models.NewPostNotFoundError(fmt.Sprintf("No post was found with the ID: %s", id))
			}
			return err
		}

		switch mode {
		case models.DeleteHard:
			return deletePostTree(tx, &post)
		case models.DeleteSoft, "":
			return tx.Model(&post).Update("status", models.PostStatusDeleted).Error
		default:
			return models.NewValidationError("DeleteMode", fmt.Sprintf("Unknown delete mode %q.", mode))
		}
	})
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "delete")
		return err
	}

	r.cache.InvalidatePost(ctx, id)
	r.log.LogDelete(ctx, map[string]any{"post_id": id, "mode": mode})
	return nil
}

func deletePostTree(tx *gorm.DB, post *models.Post) error {
	commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", post.ID)
	if err := tx.Where("post_id = ? OR comment_id IN (?)", post.ID, commentIDs).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.BookmarkedPost{}).Error; err != nil {
		return err
	}
	if err := tx.Model(post).Association("Tags").Clear(); err != nil {
		return err
	}
	return tx.Delete(post).Error
}

func (r *postRepository) ListLatest(ctx context.Context, filter PostFilter, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})
	if len(filter.ExcludeStatuses) > 0 {
		base = base.Where("posts.status NOT IN ?", filter.ExcludeStatuses)
	}
	page, err := run[models.Post](ctx, base, postListing, req, preloadTags)
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"listing": "latest", "total": page.TotalCount, "page": req.PageNumber})
	return page, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return nil, storeErr(ctx, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewPostNotFoundError("The post you're looking for was not found")
	}
	r.cache.InvalidatePost(ctx, id)
	return r.GetByID(ctx, id)
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags")
}
