package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/repository"
	"github.com/dsnmoura/thrg-flow/internal/service"
)

func addPost(t *testing.T, repo *repository.MemoryPostRepository, userID int64, platform, status string, scheduledFor time.Time) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &models.ScheduledPost{
		UserID:       userID,
		Title:        "post",
		Content:      "content",
		Platform:     platform,
		ScheduledFor: scheduledFor,
		Status:       status,
	})
	require.NoError(t, err)
	return id
}

func TestDashboardSummary(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	now := time.Now().UTC()

	soon := addPost(t, repo, 1, models.PlatformInstagram, models.PostStatusScheduled, now.Add(24*time.Hour))
	far := addPost(t, repo, 1, models.PlatformLinkedIn, models.PostStatusScheduled, now.Add(10*24*time.Hour))
	addPost(t, repo, 1, models.PlatformInstagram, models.PostStatusPublished, now.Add(-24*time.Hour))
	addPost(t, repo, 1, models.PlatformTiktok, models.PostStatusFailed, now.Add(-48*time.Hour))

	s := service.NewDashboardService(repo)
	summary, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 4, summary.TotalPosts)
	require.Equal(t, 3, summary.PlatformsActive)
	require.Equal(t, 2, summary.Scheduled)
	require.Equal(t, 1, summary.Published)
	require.Equal(t, 1, summary.Failed)

	require.Len(t, summary.Upcoming, 2)
	require.Len(t, summary.ThisWeek, 1)
	require.Equal(t, soon, summary.ThisWeek[0].ID)

	upcomingIDs := []int64{summary.Upcoming[0].ID, summary.Upcoming[1].ID}
	require.ElementsMatch(t, []int64{soon, far}, upcomingIDs)
}

func TestDashboardSummaryCountsProcessingAsScheduled(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	now := time.Now().UTC()

	addPost(t, repo, 1, models.PlatformInstagram, models.PostStatusProcessing, now.Add(-time.Minute))

	s := service.NewDashboardService(repo)
	summary, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Scheduled)
	require.Empty(t, summary.Upcoming)
}

func TestDashboardSummaryScopedToOwner(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	now := time.Now().UTC()

	mine := addPost(t, repo, 1, models.PlatformInstagram, models.PostStatusScheduled, now.Add(24*time.Hour))
	addPost(t, repo, 2, models.PlatformLinkedIn, models.PostStatusScheduled, now.Add(24*time.Hour))

	s := service.NewDashboardService(repo)
	summary, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 1, summary.TotalPosts)
	require.Equal(t, 1, summary.PlatformsActive)
	require.Len(t, summary.Upcoming, 1)
	require.Equal(t, mine, summary.Upcoming[0].ID)
}

func TestDashboardSummaryAuthRequired(t *testing.T) {
	s := service.NewDashboardService(repository.NewMemoryPostRepository())
	_, err := s.Summary(context.Background(), 0)
	require.ErrorIs(t, err, models.ErrAuthRequired)
}

func TestDashboardSummaryEmpty(t *testing.T) {
	s := service.NewDashboardService(repository.NewMemoryPostRepository())
	summary, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 0, summary.TotalPosts)
	require.NotNil(t, summary.Upcoming)
	require.NotNil(t, summary.ThisWeek)
	require.Empty(t, summary.Upcoming)
}
