package publisher

import (
	"context"
	"log/slog"

	"github.com/dsnmoura/thrg-flow/internal/models"
)

type LinkedInPublisher struct{}

func (p *LinkedInPublisher) Publish(ctx context.Context, post *models.ScheduledPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Info("publishing to linkedin", "post_id", post.ID, "title", post.Title)
	return nil
}
