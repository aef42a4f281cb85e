package seed

import (
	"context"
	"fmt"

	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/pagination"
	"webblogger/internal/service"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers int
	NumTags  int
	NumPosts int
	// MaxCommentsPerPost bounds the top-level comments of each post.
	MaxCommentsPerPost int
	// ReplyRatio is the chance that a comment receives a reply.
	ReplyRatio float64
	// LikeRatio is the chance that a given user likes a given post or comment.
	LikeRatio float64
	MaxDays   int
	// Seed makes the run reproducible; zero picks a random seed.
	Seed int64
}

const maxReplyDepth = 4

// DefaultOptions is a small, readable data set.
var DefaultOptions = Options{
	NumUsers:           25,
	NumTags:            12,
	NumPosts:           60,
	MaxCommentsPerPost: 6,
	ReplyRatio:         0.35,
	LikeRatio:          0.2,
	MaxDays:            90,
}

// Services are the handlers the seeder writes through.
type Services struct {
	Posts     *service.PostService
	Comments  *service.CommentService
	Tags      *service.TagService
	Likes     *service.LikeService
	Bookmarks *service.BookmarkService
}

// Summary counts what a run created.
type Summary struct {
	Users     int
	Tags      int
	Posts     int
	Comments  int
	Likes     int
	Bookmarks int
	Views     int
	// RunID is the correlation id attached to every log line of the run.
	RunID   string
	TraceID string
}

// Seeder populates the database through the services.
type Seeder struct {
	db      *gorm.DB
	svc     Services
	opts    Options
	factory *Factory
	logger  *observability.Logger
}

// NewSeeder creates a Seeder. db is only used by ClearAll.
func NewSeeder(db *gorm.DB, svc Services, opts Options, logger *observability.Logger) *Seeder {
	if logger == nil {
		logger = observability.GlobalLogger
	}
	return &Seeder{
		db:      db,
		svc:     svc,
		opts:    opts,
		factory: NewFactory(opts.Seed, opts.MaxDays),
		logger:  logger,
	}
}

// ClearAll removes every blog row, children before parents.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	steps := []struct {
		name string
		run  func() error
	}{
		{"likes", func() error { return db.Delete(&models.Like{}).Error }},
		{"bookmarks", func() error { return db.Delete(&models.BookmarkedPost{}).Error }},
		{"comment replies", func() error { return db.Where("parent_comment_id IS NOT NULL").Delete(&models.Comment{}).Error }},
		{"comments", func() error { return db.Delete(&models.Comment{}).Error }},
		{"post tags", func() error { return db.Exec("DELETE FROM post_tags").Error }},
		{"posts", func() error { return db.Delete(&models.Post{}).Error }},
		{"tags", func() error { return db.Delete(&models.Tag{}).Error }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("failed to clear %s: %w", step.name, err)
		}
	}
	s.logger.InfoContext(ctx, "Cleared existing blog data")
	return nil
}

// Run creates tags, posts, comment threads, likes, bookmarks and views.
// The run reuses the correlation id of ctx, or generates one.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	runID := observability.ExtractCorrelationID(ctx)
	if runID == "" {
		runID = observability.GenerateCorrelationID()
		ctx = observability.WithCorrelationID(ctx, runID)
	}
	span, ctx := observability.NewSpan(ctx, "seed.Run", attribute.String("seed.run_id", runID))
	defer span.End()

	sum := &Summary{RunID: runID, TraceID: span.TraceID()}
	s.logger.InfoContext(ctx, "Seeding started", "correlation_id", runID, "trace_id", sum.TraceID)
	err := s.run(ctx, sum)
	span.SetError(err)
	return sum, err
}

func (s *Seeder) run(ctx context.Context, sum *Summary) error {
	f := s.factory

	users := f.Users(s.opts.NumUsers)
	sum.Users = len(users)

	tagIDs := make([]uuid.UUID, 0, s.opts.NumTags)
	for i := 0; i < s.opts.NumTags; i++ {
		tag, err := s.svc.Tags.CreateTag(ctx, f.Tag())
		if err != nil {
			return fmt.Errorf("failed to create tag: %w", err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	sum.Tags = len(tagIDs)
	s.logger.InfoContext(ctx, "Seeded tags", "count", sum.Tags)

	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		post, err := s.svc.Posts.CreatePost(ctx, f.Post(Pick(f, tagIDs, f.Intn(4))))
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	sum.Posts = len(posts)
	s.logger.InfoContext(ctx, "Seeded posts", "count", sum.Posts)

	if len(users) == 0 {
		return nil
	}

	for _, post := range posts {
		if err := s.seedThread(ctx, post, users, sum); err != nil {
			return err
		}
		if err := s.likeAll(ctx, post, users, sum); err != nil {
			return err
		}
		for v := f.Intn(20); v > 0; v-- {
			if _, err := s.svc.Posts.ViewPost(ctx, post.ID); err != nil {
				return fmt.Errorf("failed to view post: %w", err)
			}
			sum.Views++
		}
	}
	s.logger.InfoContext(ctx, "Seeded engagement",
		"comments", sum.Comments, "likes", sum.Likes, "views", sum.Views)

	for _, user := range users {
		for _, post := range Pick(f, posts, f.Intn(5)) {
			if err := s.svc.Bookmarks.BookmarkPost(ctx, user, post.ID); err != nil {
				return fmt.Errorf("failed to bookmark post: %w", err)
			}
			sum.Bookmarks++
		}
	}
	s.logger.InfoContext(ctx, "Seeded bookmarks", "count", sum.Bookmarks)

	return nil
}

func (s *Seeder) seedThread(ctx context.Context, post *models.Post, users []uuid.UUID, sum *Summary) error {
	f := s.factory
	for n := f.Intn(s.opts.MaxCommentsPerPost + 1); n > 0; n-- {
		author := users[f.Intn(len(users))]
		comment, err := s.svc.Comments.CreateComment(ctx, f.Comment(post.ID, nil, author))
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		sum.Comments++

		parent := comment
		for depth := 0; depth < maxReplyDepth && f.Chance(s.opts.ReplyRatio); depth++ {
			replier := users[f.Intn(len(users))]
			reply, err := s.svc.Comments.CreateComment(ctx, f.Comment(post.ID, &parent.ID, replier))
			if err != nil {
				return fmt.Errorf("failed to create reply: %w", err)
			}
			sum.Comments++
			parent = reply
		}
		if err := s.likeAll(ctx, comment, users, sum); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) likeAll(ctx context.Context, entity models.Likeable, users []uuid.UUID, sum *Summary) error {
	for _, user := range users {
		if !s.factory.Chance(s.opts.LikeRatio) {
			continue
		}
		like, err := s.svc.Likes.ToggleLike(ctx, service.ToggleLikeInput{UserID: user, Entity: entity})
		if err != nil {
			return fmt.Errorf("failed to like %s: %w", entity.LikeTarget().Kind, err)
		}
		if like != nil {
			sum.Likes++
		}
	}
	return nil
}

// LatestPosts returns the first page of the default listing, for reporting.
func (s *Seeder) LatestPosts(ctx context.Context, size int) (*pagination.Page[models.Post], error) {
	return s.svc.Posts.GetLatestPosts(ctx, service.GetLatestPostsInput{
		Request: pagination.NewRequest[models.PostSortOption](1, size),
	})
}
