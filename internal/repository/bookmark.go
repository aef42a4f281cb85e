package repository

import (
	"context"

	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository manages users' reading lists.
type BookmarkRepository interface {
	// Bookmark adds the post to the user's list. Bookmarking twice is a no-op.
	Bookmark(ctx context.Context, userID, postID uuid.UUID) error
	// Remove drops the post from the user's list. Removing an absent entry is a no-op.
	Remove(ctx context.Context, userID, postID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error)
	// Clear empties the user's list and reports how many entries were removed.
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
}

type bookmarkRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db, log: observability.NewRepoLogger("bookmarked_posts")}
}

func (r *bookmarkRepository) Bookmark(ctx context.Context, userID, postID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	found, err := exists(ctx, r.db, &models.Post{}, postID)
	if err != nil {
		return err
	}
	if !found {
		return models.NewPostNotFoundError("The post you're trying to bookmark was not found")
	}

	bookmark := &models.BookmarkedPost{UserID: userID, PostID: postID}
	result := r.db.WithContext(ctx).
		Omit("Post").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(bookmark)
	if result.Error != nil && !isUniqueViolation(result.Error) {
		err := storeErr(ctx, result.Error)
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]any{"user_id": userID, "post_id": postID, "inserted": result.RowsAffected > 0})
	return nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID, postID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.BookmarkedPost{})
	if result.Error != nil {
		return storeErr(ctx, result.Error)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": userID, "post_id": postID, "removed": result.RowsAffected})
	return nil
}

// List runs the post pipeline over the user's bookmarked posts.
func (r *bookmarkRepository) List(ctx context.Context, userID uuid.UUID, req pagination.Request[models.PostSortOption]) (*pagination.Page[models.Post], error) {
	marked := r.db.WithContext(ctx).Model(&models.BookmarkedPost{}).Select("post_id").Where("user_id = ?", userID)
	base := r.db.WithContext(ctx).Model(&models.Post{}).Where("posts.id IN (?)", marked)
	page, err := run[models.Post](ctx, base, postListing, req, preloadTags)
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"listing": "bookmarks", "user_id": userID, "total": page.TotalCount})
	return page, nil
}

func (r *bookmarkRepository) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.BookmarkedPost{})
	if result.Error != nil {
		return 0, storeErr(ctx, result.Error)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": userID, "removed": result.RowsAffected})
	return result.RowsAffected, nil
}
