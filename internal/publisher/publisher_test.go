package publisher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/publisher"
)

func TestRegistryResolve(t *testing.T) {
	r := publisher.NewRegistry()

	for _, platform := range models.SupportedPlatforms {
		p, ok := r.Resolve(platform)
		require.True(t, ok, platform)
		require.NotNil(t, p, platform)
	}

	_, ok := r.Resolve("facebook")
	require.False(t, ok)
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := publisher.NewRegistry()
	custom := &publisher.TiktokPublisher{}
	r.Register(models.PlatformInstagram, custom)

	p, ok := r.Resolve(models.PlatformInstagram)
	require.True(t, ok)
	require.Same(t, custom, p)
}

func TestRegistryPlatforms(t *testing.T) {
	r := publisher.NewRegistry()
	require.ElementsMatch(t, models.SupportedPlatforms, r.Platforms())
}

func TestStubPublishers(t *testing.T) {
	post := &models.ScheduledPost{
		ID:           1,
		Title:        "hello",
		Platform:     models.PlatformInstagram,
		ScheduledFor: time.Now().UTC(),
	}

	r := publisher.NewRegistry()
	for _, platform := range r.Platforms() {
		p, _ := r.Resolve(platform)
		require.NoError(t, p.Publish(context.Background(), post), platform)
	}
}

func TestStubPublishersHonorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	post := &models.ScheduledPost{ID: 1, Title: "hello"}

	r := publisher.NewRegistry()
	for _, platform := range r.Platforms() {
		p, _ := r.Resolve(platform)
		require.ErrorIs(t, p.Publish(ctx, post), context.Canceled, platform)
	}
}
