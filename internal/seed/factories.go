// Package seed provides helpers to create demo data for development and
// tests. Inputs are built with gofakeit and go through the services, so
// seeded rows pass the same validation as real ones.
package seed

import (
	"fmt"
	"strings"
	"time"

	"webblogger/internal/models"
	"webblogger/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Factory builds service inputs populated with fake content.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     func() time.Time
	usedTag map[string]bool
}

// NewFactory creates a Factory. A zero seed picks a random one; any other
// seed makes the generated content reproducible.
func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		faker:   gofakeit.New(seed),
		maxDays: maxDays,
		now:     func() time.Time { return time.Now().UTC() },
		usedTag: map[string]bool{},
	}
}

// UserID returns a fresh external user id.
func (f *Factory) UserID() uuid.UUID {
	return uuid.MustParse(f.faker.UUID())
}

// Users returns n fresh user ids.
func (f *Factory) Users(n int) []uuid.UUID {
	users := make([]uuid.UUID, n)
	for i := range users {
		users[i] = f.UserID()
	}
	return users
}

// Tag builds a tag with a name not handed out before by this factory.
func (f *Factory) Tag() service.CreateTagInput {
	name := strings.ToLower(f.faker.HipsterWord())
	for i := 2; f.usedTag[name]; i++ {
		name = fmt.Sprintf("%s-%d", strings.ToLower(f.faker.HipsterWord()), i)
	}
	f.usedTag[name] = true
	return service.CreateTagInput{
		Name:          name,
		Description:   f.faker.Sentence(10),
		CoverImageURL: f.imageURL("tag", 1200, 400),
	}
}

// Post builds a post published within the last maxDays days. About one in
// ten posts is a draft.
func (f *Factory) Post(tagIDs []uuid.UUID) service.CreatePostInput {
	status := models.PostStatusPublished
	if f.faker.Number(1, 10) == 1 {
		status = models.PostStatusDraft
	}
	return service.CreatePostInput{
		Title:         strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 9)), "."),
		Content:       f.faker.Paragraph(f.faker.Number(2, 5), f.faker.Number(3, 6), 12, "\n\n"),
		CoverImageURL: f.imageURL("post", 800, 450),
		Status:        status,
		PublishedOn:   f.pastTime(),
		TagIDs:        tagIDs,
	}
}

// Comment builds a comment on postID by author, replying to parent when set.
func (f *Factory) Comment(postID uuid.UUID, parent *uuid.UUID, author uuid.UUID) service.CreateCommentInput {
	return service.CreateCommentInput{
		PostID:          postID,
		ParentCommentID: parent,
		AuthorID:        author,
		Content:         f.faker.Sentence(f.faker.Number(4, 30)),
	}
}

// Pick returns up to n distinct elements of items in random order.
func Pick[T any](f *Factory, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	shuffled := append([]T(nil), items...)
	f.faker.ShuffleAnySlice(shuffled)
	return shuffled[:n]
}

// Intn returns a number in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

func (f *Factory) pastTime() time.Time {
	now := f.now()
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return now.Add(-back).Truncate(time.Second)
}

func (f *Factory) imageURL(kind string, w, h int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s-%s/%d/%d", kind, f.faker.UUID(), w, h)
}
