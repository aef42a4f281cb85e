// Package service holds the command and query handlers of the blog. Each
// handler validates its input, maps it to an entity or id and delegates to a
// repository; repository errors propagate unchanged.
package service

import (
	"context"
	"time"

	"webblogger/internal/config"
	"webblogger/internal/models"
	"webblogger/internal/observability"
	"webblogger/internal/pagination"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Paging is the page-size policy applied to every listing query.
type Paging struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaging matches the configuration defaults.
var DefaultPaging = Paging{DefaultPageSize: 10, MaxPageSize: 100}

// PagingFromConfig reads the page-size policy from cfg.
func PagingFromConfig(cfg *config.Config) Paging {
	return Paging{DefaultPageSize: cfg.DefaultPageSize, MaxPageSize: cfg.MaxPageSize}
}

// normalize fills a zero page size with the default and caps it at the maximum.
// Negative values are left for Request.Validate to reject.
func normalize[S ~string](p Paging, req pagination.Request[S]) pagination.Request[S] {
	if req.PageSize == 0 {
		req.PageSize = p.DefaultPageSize
	}
	return req.Normalize(p.MaxPageSize)
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (*observability.Span, context.Context) {
	return observability.NewSpan(ctx, name, attrs...)
}

// endSpan records *errp on span and ends it. Use with defer and a named error.
func endSpan(span *observability.Span, errp *error) {
	if errp != nil && *errp != nil {
		span.SetError(*errp)
	}
	span.End()
}

func idAttr(key string, id uuid.UUID) attribute.KeyValue {
	return attribute.String(key, id.String())
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return models.NewValidationError("UserID", "A user is required.")
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
