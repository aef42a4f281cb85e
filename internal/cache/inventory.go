package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	PostKeyPrefix = "post:%s"
	TagKeyPrefix  = "tag:%s"
)

const (
	PostTTL = 30 * time.Minute
	TagTTL  = 10 * time.Minute
)

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func TagKey(tagID uuid.UUID) string {
	return fmt.Sprintf(TagKeyPrefix, tagID)
}

func (c *Cache) InvalidatePost(ctx context.Context, postIDs ...uuid.UUID) {
	keys := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		keys = append(keys, PostKey(id))
	}
	c.Invalidate(ctx, keys...)
}

func (c *Cache) InvalidateTag(ctx context.Context, tagID uuid.UUID) {
	c.Invalidate(ctx, TagKey(tagID))
}
