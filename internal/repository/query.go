package repository

import (
	"context"
	"strings"

	"webblogger/internal/models"
	"webblogger/internal/pagination"

	"gorm.io/gorm"
)

// listing describes how one entity type moves through the pipeline:
// which column the search term matches and how sort options become ORDER BY.
type listing[S ~string] struct {
	searchColumn string
	order        func(S) []string
	// tieBreak is appended after every sort so equal keys keep insertion order.
	tieBreak []string
}

var postListing = listing[models.PostSortOption]{
	searchColumn: "posts.title",
	order:        postOrder,
	tieBreak:     []string{"posts.created_at ASC", "posts.id ASC"},
}

var commentListing = listing[models.CommentSortOption]{
	searchColumn: "comments.content",
	order:        commentOrder,
	tieBreak:     []string{"comments.created_at ASC", "comments.id ASC"},
}

func postOrder(opt models.PostSortOption) []string {
	switch opt {
	case models.PostSortMostComments:
		return []string{"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) DESC"}
	case models.PostSortMostLiked:
		return []string{"posts.like_count DESC"}
	case models.PostSortMostViews:
		return []string{"posts.views DESC"}
	default:
		return []string{"posts.published_on DESC"}
	}
}

func commentOrder(opt models.CommentSortOption) []string {
	switch opt {
	case models.CommentSortMostReplies:
		return []string{"(SELECT COUNT(*) FROM comments AS replies WHERE replies.parent_comment_id = comments.id) DESC"}
	case models.CommentSortMostLiked:
		return []string{"comments.like_count DESC"}
	default:
		return []string{"comments.written_on DESC"}
	}
}

// run applies filter, count, sort, paginate and execute to base, in that order.
// base must already be scoped to the candidate set (for example one post's
// comments) and bound to ctx. fetch scopes, such as preloads, apply to the
// execute step only.
func run[T any, S ~string](ctx context.Context, base *gorm.DB, l listing[S], req pagination.Request[S], fetch ...func(*gorm.DB) *gorm.DB) (*pagination.Page[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filtered := base.Scopes(search(l.searchColumn, req.SearchTerm)).Session(&gorm.Session{})

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, storeErr(ctx, err)
	}
	if total == 0 {
		return pagination.Empty[T](req.PageNumber, req.PageSize), nil
	}

	var items []T
	if err := filtered.
		Scopes(sorted(l, req.SortOption), window(req)).
		Scopes(fetch...).
		Find(&items).Error; err != nil {
		return nil, storeErr(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pagination.New(total, req.PageNumber, req.PageSize, items), nil
}

func search(column, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || column == "" {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
	}
}

func sorted[S ~string](l listing[S], opt S) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, expr := range l.order(opt) {
			db = db.Order(expr)
		}
		for _, expr := range l.tieBreak {
			db = db.Order(expr)
		}
		return db
	}
}

func window[S ~string](req pagination.Request[S]) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in term match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
