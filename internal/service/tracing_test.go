package service

import (
	"context"
	"testing"

	"webblogger/internal/models"
	"webblogger/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Not parallel: installs a global tracer provider.
func TestServiceSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx := context.Background()
	posts := NewPostService(noopPostRepo(), noopTagRepo(), validation.New(), DefaultPaging)
	likes := NewLikeService(toggleState(), DefaultPaging)

	_, err := posts.CreatePost(ctx, CreatePostInput{Title: "no"})
	require.Error(t, err)

	post := &models.Post{ID: uuid.New()}
	_, err = likes.ToggleLike(ctx, ToggleLikeInput{UserID: uuid.New(), Entity: post})
	require.NoError(t, err)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = s
	}

	create, ok := spans["PostService.CreatePost"]
	require.True(t, ok)
	assert.Equal(t, codes.Error, create.Status().Code)
	require.NotEmpty(t, create.Events(), "validation error is recorded on the span")

	toggle, ok := spans["LikeService.ToggleLike"]
	require.True(t, ok)
	assert.Equal(t, codes.Unset, toggle.Status().Code)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range toggle.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "post", attrs["like.kind"].AsString())
	assert.Equal(t, post.ID.String(), attrs["like.target_id"].AsString())
	assert.True(t, attrs["like.liked"].AsBool())
	assert.Equal(t, int64(1), attrs["like.count"].AsInt64())
}
