package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/repository"
	"github.com/dsnmoura/thrg-flow/internal/service"
	"github.com/dsnmoura/thrg-flow/internal/transfer"
)

func newScheduleService(t *testing.T) (service.ScheduleService, *repository.MemoryPostRepository) {
	t.Helper()
	repo := repository.NewMemoryPostRepository()
	s, err := service.NewScheduleService(repo, "UTC")
	require.NoError(t, err)
	return s, repo
}

func validCreation() *transfer.PostCreation {
	return &transfer.PostCreation{
		Title:    "Launch announcement",
		Content:  "We are live!",
		Platform: models.PlatformInstagram,
		Date:     time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02"),
		Time:     "10:00",
	}
}

func TestSchedulePost(t *testing.T) {
	s, _ := newScheduleService(t)

	post, delay, err := s.SchedulePost(context.Background(), 1, validCreation())
	require.NoError(t, err)
	require.NotZero(t, post.ID)
	require.Equal(t, models.PostStatusScheduled, post.Status)
	require.Greater(t, delay, time.Duration(0))

	posts, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, post.ID, posts[0].ID)
}

func TestSchedulePostMissingFields(t *testing.T) {
	s, _ := newScheduleService(t)

	cases := []struct {
		field string
		blank func(pc *transfer.PostCreation)
	}{
		{"title", func(pc *transfer.PostCreation) { pc.Title = "" }},
		{"content", func(pc *transfer.PostCreation) { pc.Content = "  " }},
		{"platform", func(pc *transfer.PostCreation) { pc.Platform = "" }},
		{"date", func(pc *transfer.PostCreation) { pc.Date = "" }},
		{"time", func(pc *transfer.PostCreation) { pc.Time = "" }},
	}
	for _, tc := range cases {
		pc := validCreation()
		tc.blank(pc)
		// A stale date must not mask the missing field.
		if tc.field != "date" {
			pc.Date = "2020-01-01"
		}

		_, _, err := s.SchedulePost(context.Background(), 1, pc)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve, tc.field)
		require.Equal(t, models.ReasonMissingField, ve.Reason, tc.field)
		require.Equal(t, tc.field, ve.Field)
	}
}

func TestSchedulePostInvalidInput(t *testing.T) {
	s, _ := newScheduleService(t)

	cases := []struct {
		name  string
		field string
		blank func(pc *transfer.PostCreation)
	}{
		{"unsupported platform", "platform", func(pc *transfer.PostCreation) { pc.Platform = "facebook" }},
		{"bad timezone", "timezone", func(pc *transfer.PostCreation) { pc.Timezone = "Mars/Olympus" }},
		{"bad date", "date", func(pc *transfer.PostCreation) { pc.Date = "31/12/2030" }},
		{"off-grid minutes", "time", func(pc *transfer.PostCreation) { pc.Time = "10:30" }},
		{"before first slot", "time", func(pc *transfer.PostCreation) { pc.Time = "05:00" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pc := validCreation()
			tc.blank(pc)

			_, _, err := s.SchedulePost(context.Background(), 1, pc)
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, models.ReasonInvalidField, ve.Reason)
			require.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestSchedulePostInPast(t *testing.T) {
	s, _ := newScheduleService(t)

	pc := validCreation()
	pc.Date = time.Now().UTC().Add(-48 * time.Hour).Format("2006-01-02")

	_, _, err := s.SchedulePost(context.Background(), 1, pc)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, models.ReasonPastSchedule, ve.Reason)

	posts, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestSchedulePostTimezone(t *testing.T) {
	s, _ := newScheduleService(t)

	pc := validCreation()
	pc.Timezone = "America/Sao_Paulo"
	pc.Date = "2030-01-02"
	pc.Time = "10:00"

	post, _, err := s.SchedulePost(context.Background(), 1, pc)
	require.NoError(t, err)

	// 10:00 in Sao Paulo (UTC-3) is 13:00 UTC.
	want := time.Date(2030, time.January, 2, 13, 0, 0, 0, time.UTC)
	require.True(t, post.ScheduledFor.Equal(want), "got %s", post.ScheduledFor)
}

func TestSchedulePostAuthRequired(t *testing.T) {
	s, _ := newScheduleService(t)

	_, _, err := s.SchedulePost(context.Background(), 0, validCreation())
	require.ErrorIs(t, err, models.ErrAuthRequired)
}

func TestCancelPost(t *testing.T) {
	s, repo := newScheduleService(t)

	post, _, err := s.SchedulePost(context.Background(), 1, validCreation())
	require.NoError(t, err)

	require.NoError(t, s.CancelPost(context.Background(), 1, post.ID))

	posts, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, posts)

	// Gone means no second cancellation either.
	err = s.CancelPost(context.Background(), 1, post.ID)
	require.ErrorIs(t, err, models.ErrNotCancellable)

	publishedID, err := repo.Create(context.Background(), &models.ScheduledPost{
		UserID:       1,
		Title:        "already out",
		Content:      "content",
		Platform:     models.PlatformTiktok,
		ScheduledFor: time.Now().UTC().Add(-time.Hour),
		Status:       models.PostStatusPublished,
	})
	require.NoError(t, err)
	err = s.CancelPost(context.Background(), 1, publishedID)
	require.ErrorIs(t, err, models.ErrNotCancellable)
}

func TestCancelPostOtherOwner(t *testing.T) {
	s, _ := newScheduleService(t)

	post, _, err := s.SchedulePost(context.Background(), 1, validCreation())
	require.NoError(t, err)

	err = s.CancelPost(context.Background(), 2, post.ID)
	require.ErrorIs(t, err, models.ErrNotCancellable)

	posts, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestListRefreshesAfterMutation(t *testing.T) {
	s, _ := newScheduleService(t)

	posts, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, posts)

	post, _, err := s.SchedulePost(context.Background(), 1, validCreation())
	require.NoError(t, err)

	posts, err = s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, post.ID, posts[0].ID)
}

func TestPostInfoScopedToOwner(t *testing.T) {
	s, _ := newScheduleService(t)

	post, _, err := s.SchedulePost(context.Background(), 1, validCreation())
	require.NoError(t, err)

	got, err := s.PostInfo(context.Background(), post.ID, 1)
	require.NoError(t, err)
	require.Equal(t, post.ID, got.ID)

	_, err = s.PostInfo(context.Background(), post.ID, 2)
	require.ErrorIs(t, err, models.ErrPostNotFound)
}

func TestOptimalTimes(t *testing.T) {
	s, _ := newScheduleService(t)

	for _, platform := range models.SupportedPlatforms {
		times := s.OptimalTimes(platform)
		require.Len(t, times, 5, platform)
		for _, slot := range times {
			_, err := time.Parse("15:04", slot)
			require.NoError(t, err)
		}
	}
	require.Empty(t, s.OptimalTimes("facebook"))
}

func TestIsValidationError(t *testing.T) {
	require.True(t, service.IsValidationError(models.NewMissingFieldError("title")))
	require.False(t, service.IsValidationError(errors.New("boom")))
	require.False(t, service.IsValidationError(models.ErrAuthRequired))
}
