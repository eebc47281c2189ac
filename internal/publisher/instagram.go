package publisher

import (
	"context"
	"log/slog"

	"github.com/dsnmoura/thrg-flow/internal/models"
)

// InstagramPublisher is a stub: it records intent and reports success.
// The real Graph API call goes here.
type InstagramPublisher struct{}

func (p *InstagramPublisher) Publish(ctx context.Context, post *models.ScheduledPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Info("publishing to instagram", "post_id", post.ID, "title", post.Title)
	return nil
}
