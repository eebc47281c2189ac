package job_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	job "github.com/dsnmoura/thrg-flow/internal/jobs"
	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/publisher"
	"github.com/dsnmoura/thrg-flow/internal/repository"
)

type stubPublisher struct {
	err   error
	calls int64
}

func (p *stubPublisher) Publish(ctx context.Context, post *models.ScheduledPost) error {
	atomic.AddInt64(&p.calls, 1)
	return p.err
}

type failingMarkRepo struct {
	*repository.MemoryPostRepository
	failID int64
}

func (r *failingMarkRepo) MarkPublished(ctx context.Context, id int64) error {
	if id == r.failID {
		return errors.New("connection reset")
	}
	return r.MemoryPostRepository.MarkPublished(ctx, id)
}

func seedPost(t *testing.T, repo repository.PostRepository, platform string, scheduledFor time.Time) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &models.ScheduledPost{
		UserID:       1,
		Title:        "post " + platform,
		Content:      "content",
		Platform:     platform,
		ScheduledFor: scheduledFor,
		Status:       models.PostStatusScheduled,
	})
	require.NoError(t, err)
	return id
}

func TestRunNothingDue(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	futureID := seedPost(t, repo, models.PlatformInstagram, time.Now().UTC().Add(time.Hour))

	j := job.NewPublishJob(repo, publisher.NewRegistry())

	for i := 0; i < 2; i++ {
		report, err := j.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 0, report.Processed)
		require.Equal(t, "No posts to publish", report.Message)
	}

	post, err := repo.GetByID(context.Background(), futureID)
	require.NoError(t, err)
	require.Equal(t, models.PostStatusScheduled, post.Status)
}

func TestRunPublishesDuePosts(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	now := time.Now().UTC()
	ids := []int64{
		seedPost(t, repo, models.PlatformInstagram, now.Add(-3*time.Minute)),
		seedPost(t, repo, models.PlatformLinkedIn, now.Add(-2*time.Minute)),
		seedPost(t, repo, models.PlatformTiktok, now.Add(-time.Minute)),
	}

	j := job.NewPublishJob(repo, publisher.NewRegistry())
	report, err := j.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, report.Processed)
	require.Equal(t, 3, report.Successful)
	require.Equal(t, 0, report.Failed)

	for _, id := range ids {
		post, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, models.PostStatusPublished, post.Status)
		require.Nil(t, post.ErrorMessage)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	now := time.Now().UTC()
	okA := seedPost(t, repo, models.PlatformInstagram, now.Add(-4*time.Minute))
	badA := seedPost(t, repo, models.PlatformLinkedIn, now.Add(-3*time.Minute))
	okB := seedPost(t, repo, models.PlatformTiktok, now.Add(-2*time.Minute))
	badB := seedPost(t, repo, models.PlatformLinkedIn, now.Add(-time.Minute))

	registry := publisher.NewRegistry()
	registry.Register(models.PlatformLinkedIn, &stubPublisher{err: errors.New("rate limited")})

	j := job.NewPublishJob(repo, registry)
	report, err := j.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 4, report.Processed)
	require.Equal(t, 2, report.Successful)
	require.Equal(t, 2, report.Failed)

	for _, id := range []int64{okA, okB} {
		post, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, models.PostStatusPublished, post.Status)
	}
	for _, id := range []int64{badA, badB} {
		post, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, models.PostStatusFailed, post.Status)
		require.NotNil(t, post.ErrorMessage)
		require.Equal(t, "rate limited", *post.ErrorMessage)
	}
}

func TestRunReportsOldestDueFirst(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	now := time.Now().UTC()
	// Created out of order on purpose.
	second := seedPost(t, repo, models.PlatformInstagram, now.Add(-2*time.Minute))
	third := seedPost(t, repo, models.PlatformInstagram, now.Add(-time.Minute))
	first := seedPost(t, repo, models.PlatformInstagram, now.Add(-3*time.Minute))

	j := job.NewPublishJob(repo, publisher.NewRegistry())
	report, err := j.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	require.Equal(t, first, report.Results[0].PostID)
	require.Equal(t, second, report.Results[1].PostID)
	require.Equal(t, third, report.Results[2].PostID)
}

func TestRunUnsupportedPlatform(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	id := seedPost(t, repo, "facebook", time.Now().UTC().Add(-time.Minute))

	j := job.NewPublishJob(repo, publisher.NewRegistry())
	report, err := j.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, report.Processed)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, "Unsupported platform: facebook", report.Results[0].Error)

	post, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.PostStatusFailed, post.Status)
	require.Equal(t, "Unsupported platform: facebook", *post.ErrorMessage)
}

func TestRunPersistenceFailureDoesNotAbortBatch(t *testing.T) {
	base := repository.NewMemoryPostRepository()
	now := time.Now().UTC()
	broken := seedPost(t, base, models.PlatformInstagram, now.Add(-2*time.Minute))
	healthy := seedPost(t, base, models.PlatformTiktok, now.Add(-time.Minute))

	repo := &failingMarkRepo{MemoryPostRepository: base, failID: broken}
	j := job.NewPublishJob(repo, publisher.NewRegistry())

	report, err := j.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, report.Processed)
	require.Equal(t, 1, report.Successful)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, broken, report.Results[0].PostID)
	require.False(t, report.Results[0].Success)
	require.Contains(t, report.Results[0].Error, "failed to record publish outcome")

	post, err := base.GetByID(context.Background(), healthy)
	require.NoError(t, err)
	require.Equal(t, models.PostStatusPublished, post.Status)
}

func TestConcurrentRunsPublishOnce(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	seedPost(t, repo, models.PlatformInstagram, time.Now().UTC().Add(-time.Minute))

	counter := &stubPublisher{}
	registry := publisher.NewRegistry()
	registry.Register(models.PlatformInstagram, counter)

	j := job.NewPublishJob(repo, registry)

	var wg sync.WaitGroup
	processed := make([]int, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			report, err := j.Run(context.Background())
			if err != nil {
				errs[idx] = err
				return
			}
			processed[idx] = report.Processed
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	require.EqualValues(t, 1, atomic.LoadInt64(&counter.calls))
	require.Equal(t, 1, processed[0]+processed[1])
}

func TestPublishOneIdempotent(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	id := seedPost(t, repo, models.PlatformInstagram, time.Now().UTC().Add(-time.Minute))

	counter := &stubPublisher{}
	registry := publisher.NewRegistry()
	registry.Register(models.PlatformInstagram, counter)

	j := job.NewPublishJob(repo, registry)

	require.NoError(t, j.PublishOne(context.Background(), id))
	require.NoError(t, j.PublishOne(context.Background(), id))
	require.EqualValues(t, 1, atomic.LoadInt64(&counter.calls))

	post, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.PostStatusPublished, post.Status)

	// Unknown ids and not-yet-due posts are no-ops.
	require.NoError(t, j.PublishOne(context.Background(), 9999))
	future := seedPost(t, repo, models.PlatformInstagram, time.Now().UTC().Add(time.Hour))
	require.NoError(t, j.PublishOne(context.Background(), future))
	post, err = repo.GetByID(context.Background(), future)
	require.NoError(t, err)
	require.Equal(t, models.PostStatusScheduled, post.Status)
}
