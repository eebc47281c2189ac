package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/publisher"
	"github.com/dsnmoura/thrg-flow/internal/repository"
	"github.com/dsnmoura/thrg-flow/internal/transfer"
)

const (
	publishConcurrency = 10
	publishTimeout     = 30 * time.Second
)

// PublishJob scans for due posts and dispatches each one to its
// platform publisher. One post's failure never stops the rest of the
// batch; the only job-level failure is being unable to query the store.
type PublishJob struct {
	pr       repository.PostRepository
	registry *publisher.Registry
}

func NewPublishJob(pr repository.PostRepository, registry *publisher.Registry) *PublishJob {
	return &PublishJob{pr: pr, registry: registry}
}

// Run processes every currently due post and returns the batch report.
// Results keep the oldest-due-first order of the query. Posts claimed
// by a concurrent run are skipped and left to that run's report.
func (j *PublishJob) Run(ctx context.Context) (*transfer.PublishReport, error) {
	due, err := j.pr.GetDue(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("failed to fetch due posts", "error", err)
		return nil, &models.PersistenceError{Op: "fetch due posts", Err: err}
	}

	if len(due) == 0 {
		return &transfer.PublishReport{Processed: 0, Message: "No posts to publish"}, nil
	}

	slog.Info("found posts to publish", "count", len(due))

	// Fan out with bounded concurrency; the indexed slice keeps the
	// report in query order regardless of completion order.
	outcomes := make([]*transfer.PublishResult, len(due))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, publishConcurrency)

	for i, post := range due {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, post *models.ScheduledPost) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result, claimed := j.processPost(ctx, post)
			if claimed {
				outcomes[idx] = &result
			}
		}(i, post)
	}
	wg.Wait()

	report := &transfer.PublishReport{Message: "Posts processed"}
	for _, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		report.Processed++
		if outcome.Success {
			report.Successful++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, *outcome)
	}

	slog.Info("publish run complete",
		"processed", report.Processed,
		"successful", report.Successful,
		"failed", report.Failed)

	return report, nil
}

// PublishOne is the fast path used by the delayed task handler. It is
// idempotent: a post already claimed, finished or deleted is a no-op.
func (j *PublishJob) PublishOne(ctx context.Context, postID int64) error {
	post, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return &models.PersistenceError{Op: "fetch post", Err: err}
	}
	if post == nil || post.Status != models.PostStatusScheduled {
		return nil
	}
	if post.ScheduledFor.After(time.Now().UTC()) {
		// Not due yet; the sweep will pick it up.
		return nil
	}

	result, claimed := j.processPost(ctx, post)
	if claimed && !result.Success {
		slog.Info("post publish failed", "post_id", postID, "error", result.Error)
	}
	return nil
}

// processPost runs one post's claim -> publish -> persist sequence.
// The returned bool reports whether this caller won the claim; a lost
// claim means another run owns the post.
func (j *PublishJob) processPost(ctx context.Context, post *models.ScheduledPost) (transfer.PublishResult, bool) {
	result := transfer.PublishResult{
		PostID:   post.ID,
		Platform: post.Platform,
		Title:    post.Title,
	}

	claimed, err := j.pr.ClaimForPublishing(ctx, post.ID)
	if err != nil {
		result.Status = post.Status
		result.Error = fmt.Sprintf("claim failed: %v", err)
		return result, true
	}
	if !claimed {
		return result, false
	}

	var publishErr error
	p, ok := j.registry.Resolve(post.Platform)
	if !ok {
		publishErr = fmt.Errorf("Unsupported platform: %s", post.Platform)
	} else {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		publishErr = p.Publish(pubCtx, post)
		cancel()
	}

	if publishErr == nil {
		if err := j.pr.MarkPublished(ctx, post.ID); err != nil {
			result.Status = models.PostStatusProcessing
			result.Error = fmt.Sprintf("failed to record publish outcome: %v", err)
			return result, true
		}
		result.Success = true
		result.Status = models.PostStatusPublished
		return result, true
	}

	slog.Info("publisher failed", "post_id", post.ID, "platform", post.Platform, "error", publishErr)
	result.Error = publishErr.Error()
	if err := j.pr.MarkFailed(ctx, post.ID, publishErr.Error()); err != nil {
		result.Status = models.PostStatusProcessing
		result.Error = fmt.Sprintf("%v (and failed to record outcome: %v)", publishErr, err)
		return result, true
	}
	result.Status = models.PostStatusFailed
	return result, true
}
