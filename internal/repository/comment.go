package repository

import (
	"context"
	"time"

	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Save(ctx context.Context, postID uuid.UUID, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Update(ctx context.Context, id uuid.UUID, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPost(ctx context.Context, postID uuid.UUID, req pagination.Request[models.CommentSortOption]) (*pagination.Page[models.Comment], error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

// Save attaches comment to the post with postID. The post is checked first,
// then the parent comment, which must belong to the same post.
func (r *commentRepository) Save(ctx context.Context, postID uuid.UUID, comment *models.Comment) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postExists, err := exists(ctx, tx, &models.Post{}, postID)
		if err != nil {
			return err
		}
		if !postExists {
			return models.NewPostNotFoundError("The post you're looking for was not found")
		}

		if comment.ParentCommentID != nil {
			var parent models.Comment
			if err := tx.Select("id", "post_id").First(&parent, "id = ?", *comment.ParentCommentID).Error; err != nil {
				if isNotFound(err) {
					return models.NewCommentNotFoundError("The comment you're replying to was not found")
				}
				return err
			}
			if parent.PostID != postID {
				return models.NewValidationError("ParentCommentID", "The comment you're replying to belongs to a different post.")
			}
		}

		comment.PostID = postID
		return tx.Create(comment).Error
	})
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "create")
		return nil, err
	}
	r.log.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "post_id": postID, "reply": comment.ParentCommentID != nil})
	return comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := r.db.WithContext(ctx).Scopes(preloadReplies).First(&comment, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewCommentNotFoundError("The comment you're looking for was not found")
		}
		return nil, storeErr(ctx, err)
	}
	r.log.LogRead(ctx, map[string]any{"comment_id": id})
	return &comment, nil
}

// Update overwrites the content and stamps LastEditedOn. Post and parent are immutable.
func (r *commentRepository) Update(ctx context.Context, id uuid.UUID, comment *models.Comment) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return models.NewCommentNotFoundError("The comment you're looking for was not found")
			}
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&updated).Updates(map[string]any{
			"content":        comment.Content,
			"last_edited_on": now,
		}).Error; err != nil {
			return err
		}
		updated.Content = comment.Content
		updated.LastEditedOn = &now
		return nil
	})
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "update")
		return nil, err
	}
	r.log.LogUpdate(ctx, map[string]any{"comment_id": id})
	return &updated, nil
}

// Delete removes the comment, its reply subtree, and the likes on all of them.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var removed int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(ctx, tx, &models.Comment{}, id)
		if err != nil {
			return err
		}
		if !found {
			return models.NewCommentNotFoundError("The comment you're trying to delete was not found")
		}

		ids, err := replySubtree(tx, id)
		if err != nil {
			return err
		}
		removed = len(ids)

		if err := tx.Where("comment_id IN ?", ids).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		// Deepest replies first so no row ever points at a deleted parent.
		for i := len(ids) - 1; i >= 0; i-- {
			if err := tx.Delete(&models.Comment{}, "id = ?", ids[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = storeErr(ctx, err)
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogDelete(ctx, map[string]any{"comment_id": id, "removed": removed})
	return nil
}

// replySubtree returns root followed by every transitive reply, level by level.
func replySubtree(tx *gorm.DB, root uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{root}
	frontier := []uuid.UUID{root}
	for len(frontier) > 0 {
		var next []uuid.UUID
		if err := tx.Model(&models.Comment{}).
			Where("parent_comment_id IN ?", frontier).
			Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		ids = append(ids, next...)
		frontier = next
	}
	return ids, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID, req pagination.Request[models.CommentSortOption]) (*pagination.Page[models.Comment], error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).Where("comments.post_id = ?", postID)
	page, err := run[models.Comment](ctx, base, commentListing, req, preloadReplies)
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"listing": "post_comments", "post_id": postID, "total": page.TotalCount})
	return page, nil
}

func preloadReplies(db *gorm.DB) *gorm.DB {
	return db.Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("comments.written_on ASC")
	})
}
