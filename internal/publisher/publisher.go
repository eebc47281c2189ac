package publisher

import (
	"context"

	"github.com/dsnmoura/thrg-flow/internal/models"
)

// Publisher pushes one post to one platform. Implementations must not
// leave partial side effects behind when they return an error, so a
// real client can replace a stub without touching the dispatcher.
type Publisher interface {
	Publish(ctx context.Context, post *models.ScheduledPost) error
}

// Registry maps platform identifiers to publishers.
type Registry struct {
	publishers map[string]Publisher
}

func NewRegistry() *Registry {
	return &Registry{
		publishers: map[string]Publisher{
			models.PlatformInstagram: &InstagramPublisher{},
			models.PlatformLinkedIn:  &LinkedInPublisher{},
			models.PlatformTiktok:    &TiktokPublisher{},
		},
	}
}

func (r *Registry) Register(platform string, p Publisher) {
	r.publishers[platform] = p
}

func (r *Registry) Resolve(platform string) (Publisher, bool) {
	p, ok := r.publishers[platform]
	return p, ok
}

func (r *Registry) Platforms() []string {
	platforms := make([]string, 0, len(r.publishers))
	for platform := range r.publishers {
		platforms = append(platforms, platform)
	}
	return platforms
}
