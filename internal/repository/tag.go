package repository

import (
	"context"
	"fmt"

	"webblogger/internal/cache"
	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Save(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
	Update(ctx context.Context, id uuid.UUID, tag *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, tagID uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error)
	// ResolveTags loads the tags with ids, failing on the first unknown id.
	ResolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error)
}

type tagRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   *observability.RepoLogger
}

// NewTagRepository creates a new tag repository. c may be nil.
func NewTagRepository(db *gorm.DB, c *cache.Cache) TagRepository {
	return &tagRepository{db: db, cache: c, log: observability.NewRepoLogger("tags")}
}

func (r *tagRepository) Save(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Omit("Posts").Create(tag).Error; err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "create")
		return nil, err
	}
	r.log.LogCreate(ctx, map[string]any{"tag_id": tag.ID, "name": tag.Name})
	return tag, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tag models.Tag
	err := r.cache.Aside(ctx, cache.TagKey(id), &tag, cache.TagTTL, func() error {
		return r.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	})
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewTagNotFoundError("No tag was found with the given ID")
		}
		return nil, storeErr(ctx, err)
	}
	r.log.LogRead(ctx, map[string]any{"tag_id": id})
	return &tag, nil
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, storeErr(ctx, err)
	}
	r.log.LogRead(ctx, map[string]any{"listing": "all", "count": len(tags)})
	return tags, nil
}

func (r *tagRepository) Update(ctx context.Context, id uuid.UUID, tag *models.Tag) (*models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		updated models.Tag
		postIDs []uuid.UUID
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return models.NewTagNotFoundError("The tag you're trying to update was not found")
			}
			return err
		}
		updated.Name = tag.Name
		updated.Description = tag.Description
		updated.CoverImageURL = tag.CoverImageURL
		if err := tx.Model(&updated).Select("name", "description", "cover_image_url").Updates(&updated).Error; err != nil {
			return err
		}
		return tx.Table("post_tags").Where("tag_id = ?", id).Pluck("post_id", &postIDs).Error
	})
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "update")
		return nil, err
	}
	// Cached posts embed their tags.
	r.cache.InvalidateTag(ctx, id)
	r.cache.InvalidatePost(ctx, postIDs...)
	r.log.LogUpdate(ctx, map[string]any{"tag_id": id})
	return &updated, nil
}

// Delete detaches the tag from its posts and removes it. Posts are kept.
func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var postIDs []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.Select("id").First(&tag, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return models.NewTagNotFoundError("The tag you're trying to delete was not found")
			}
			return err
		}
		if err := tx.Table("post_tags").Where("tag_id = ?", id).Pluck("post_id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.cache.InvalidateTag(ctx, id)
	r.cache.InvalidatePost(ctx, postIDs...)
	r.log.LogDelete(ctx, map[string]any{"tag_id": id, "detached_posts": len(postIDs)})
	return nil
}

// ListPosts runs the post pipeline over the posts carrying the tag.
// An existing tag with no posts yields the empty page.
func (r *tagRepository) ListPosts(ctx context.Context, tagID uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found, err := exists(ctx, r.db, &models.Tag{}, tagID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.NewTagNotFoundError("No tag was found with the given ID")
	}

	tagged := r.db.WithContext(ctx).Table("post_tags").Select("post_id").Where("tag_id = ?", tagID)
	base := r.db.WithContext(ctx).Model(&models.Post{}).Where("posts.id IN (?)", tagged)
	page, err := run[models.Post](ctx, base, postListing, req, preloadTags)
	if err != nil {
		r.log.LogError(ctx, err, "list_posts")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"listing": "tag_posts", "tag_id": tagID, "total": page.TotalCount})
	return page, nil
}

func (r *tagRepository) ResolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, storeErr(ctx, err)
	}
	found := make(map[uuid.UUID]struct{}, len(tags))
	for _, t := range tags {
		found[t.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, models.NewTagNotFoundError(fmt.Sprintf("No tag was found with the ID: %s", id))
		}
	}
	return tags, nil
}
