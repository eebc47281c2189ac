package publisher

import (
	"context"
	"log/slog"

	"github.com/dsnmoura/thrg-flow/internal/models"
)

type TiktokPublisher struct{}

func (p *TiktokPublisher) Publish(ctx context.Context, post *models.ScheduledPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Info("publishing to tiktok", "post_id", post.ID, "title", post.Title)
	return nil
}
