// Command main seeds the blog database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"webblogger/internal/app"
	"webblogger/internal/config"
	"webblogger/internal/observability"
	"webblogger/internal/seed"
)

func main() {
	opts := seed.DefaultOptions
	flag.IntVar(&opts.NumUsers, "users", opts.NumUsers, "Number of distinct users engaging with posts")
	flag.IntVar(&opts.NumTags, "tags", opts.NumTags, "Number of tags to create")
	flag.IntVar(&opts.NumPosts, "posts", opts.NumPosts, "Number of posts to create")
	flag.IntVar(&opts.MaxCommentsPerPost, "comments", opts.MaxCommentsPerPost, "Maximum top-level comments per post")
	flag.Float64Var(&opts.LikeRatio, "like-ratio", opts.LikeRatio, "Chance that a user likes a given post or comment")
	flag.Int64Var(&opts.Seed, "seed", 0, "Random seed for reproducible data (0 = random)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(os.Stdout, observability.ParseLevel(cfg.LogLevel))
	observability.GlobalLogger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := a.Shutdown(context.Background()); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	logger.InfoContext(ctx, "Database seeder starting",
		"driver", cfg.DBDriver,
		"cache", a.CacheEnabled(),
		"users", opts.NumUsers,
		"tags", opts.NumTags,
		"posts", opts.NumPosts,
		"clean", *shouldClean,
	)

	s := seed.NewSeeder(a.DB(), seed.Services{
		Posts:     a.Posts,
		Comments:  a.Comments,
		Tags:      a.Tags,
		Likes:     a.Likes,
		Bookmarks: a.Bookmarks,
	}, opts, logger)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			logger.ErrorContext(ctx, "Cleanup failed", "error", err)
			return
		}
	}

	sum, err := s.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Seeding failed", "error", err)
		return
	}

	logger.InfoContext(ctx, "Seeding complete",
		"run_id", sum.RunID,
		"trace_id", sum.TraceID,
		"tags", sum.Tags,
		"posts", sum.Posts,
		"comments", sum.Comments,
		"likes", sum.Likes,
		"bookmarks", sum.Bookmarks,
		"views", sum.Views,
	)

	latest, err := s.LatestPosts(ctx, 5)
	if err != nil {
		logger.WarnContext(ctx, "Could not list latest posts", "error", err)
		return
	}
	for _, p := range latest.Items {
		logger.InfoContext(ctx, "Latest post", "id", p.ID, "title", p.Title, "likes", p.LikeCount, "views", p.Views)
	}
}
