package seed

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"webblogger/internal/app"
	"webblogger/internal/config"
	"webblogger/internal/database"
	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = observability.NewLogger(io.Discard, slog.LevelError)

func TestFactory_BuildsValidInputs(t *testing.T) {
	t.Parallel()

	f := NewFactory(42, 30)
	v := validation.New()
	tagIDs := []uuid.UUID{uuid.New()}

	for i := 0; i < 50; i++ {
		in := f.Post(tagIDs)
		post := &models.Post{
			Title:         in.Title,
			Content:       in.Content,
			CoverImageURL: in.CoverImageURL,
			Status:        in.Status,
			PublishedOn:   in.PublishedOn,
		}
		require.NoError(t, v.Validate(post), "post %d: %+v", i, in)
		assert.WithinDuration(t, time.Now(), in.PublishedOn, 31*24*time.Hour)

		tag := f.Tag()
		require.NoError(t, v.Validate(&models.Tag{Name: tag.Name, Description: tag.Description, CoverImageURL: tag.CoverImageURL}))

		c := f.Comment(uuid.New(), nil, f.UserID())
		require.NoError(t, v.Validate(&models.Comment{Content: c.Content}))
	}
}

func TestFactory_TagNamesAreUnique(t *testing.T) {
	t.Parallel()

	f := NewFactory(7, 0)
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		name := f.Tag().Name
		require.False(t, seen[name], "duplicate tag name %q", name)
		seen[name] = true
	}
}

func TestFactory_SameSeedSameContent(t *testing.T) {
	t.Parallel()

	a, b := NewFactory(99, 10), NewFactory(99, 10)
	assert.Equal(t, a.Tag().Name, b.Tag().Name)
	assert.Equal(t, a.UserID(), b.UserID())
}

func TestPick(t *testing.T) {
	t.Parallel()

	f := NewFactory(1, 0)
	items := []int{1, 2, 3, 4, 5}
	got := Pick(f, items, 3)
	assert.Len(t, got, 3)
	assert.Subset(t, items, got)
	assert.Len(t, Pick(f, items, 10), 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items, "input is not reordered")
}

func TestSeeder_RunAndClear(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Env:             "test",
		DBDriver:        config.DriverSQLite,
		SQLitePath:      ":memory:",
		DefaultPageSize: 10,
		MaxPageSize:     100,
	}
	db, err := database.Connect(cfg, quiet)
	require.NoError(t, err)
	a := app.NewWithDeps(cfg, db, nil, quiet)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	opts := Options{
		NumUsers:           6,
		NumTags:            4,
		NumPosts:           10,
		MaxCommentsPerPost: 3,
		ReplyRatio:         0.5,
		LikeRatio:          0.5,
		MaxDays:            30,
		Seed:               2024,
	}
	s := NewSeeder(db, Services{
		Posts:     a.Posts,
		Comments:  a.Comments,
		Tags:      a.Tags,
		Likes:     a.Likes,
		Bookmarks: a.Bookmarks,
	}, opts, quiet)
	ctx := context.Background()

	sum, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Users)
	assert.Equal(t, 4, sum.Tags)
	assert.Equal(t, 10, sum.Posts)
	_, err = uuid.Parse(sum.RunID)
	require.NoError(t, err, "run id %q", sum.RunID)
	assert.Len(t, sum.TraceID, 32)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(sum.Comments), count(&models.Comment{}))
	assert.Equal(t, int64(sum.Likes), count(&models.Like{}))
	assert.Equal(t, int64(sum.Bookmarks), count(&models.BookmarkedPost{}))

	// Every counter matches its like rows.
	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	var views int
	for _, p := range posts {
		var likes int64
		require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes).Error)
		assert.Equal(t, likes, int64(p.LikeCount), "post %s", p.ID)
		views += int(p.Views)
	}
	assert.Equal(t, sum.Views, views)

	page, err := s.LatestPosts(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), page.TotalCount)
	assert.Len(t, page.Items, 5)

	require.NoError(t, s.ClearAll(ctx))
	for _, model := range []any{&models.Like{}, &models.BookmarkedPost{}, &models.Comment{}, &models.Post{}, &models.Tag{}} {
		assert.Zero(t, count(model))
	}
}

func TestSeeder_RunKeepsCallerCorrelationID(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Env: "test", DBDriver: config.DriverSQLite, SQLitePath: ":memory:"}
	db, err := database.Connect(cfg, quiet)
	require.NoError(t, err)
	a := app.NewWithDeps(cfg, db, nil, quiet)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	var buf bytes.Buffer
	s := NewSeeder(db, Services{Tags: a.Tags, Posts: a.Posts}, Options{NumTags: 1, Seed: 5},
		observability.NewLogger(&buf, slog.LevelInfo))
	ctx := observability.WithCorrelationID(context.Background(), "nightly-refresh")

	sum, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nightly-refresh", sum.RunID)
	assert.Equal(t, 1, sum.Tags)
	assert.Contains(t, buf.String(), `"correlation_id":"nightly-refresh"`)
}
