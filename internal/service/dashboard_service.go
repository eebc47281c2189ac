package service

import (
	"context"
	"time"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/repository"
	"github.com/dsnmoura/thrg-flow/internal/transfer"
)

type DashboardService interface {
	Summary(ctx context.Context, userID int64) (*transfer.DashboardSummary, error)
}

type dashboardService struct {
	pr repository.PostRepository
}

func NewDashboardService(pr repository.PostRepository) DashboardService {
	return &dashboardService{pr: pr}
}

// Summary derives the dashboard views from a single owner-scoped
// snapshot: upcoming posts, the next seven days, distinct platforms
// and status counts. Reads only.
func (s *dashboardService) Summary(ctx context.Context, userID int64) (*transfer.DashboardSummary, error) {
	if userID == 0 {
		return nil, models.ErrAuthRequired
	}

	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list posts", Err: err}
	}

	now := time.Now().UTC()
	weekAhead := now.Add(7 * 24 * time.Hour)
	platforms := make(map[string]struct{})

	summary := &transfer.DashboardSummary{
		TotalPosts: len(posts),
		Upcoming:   []*models.ScheduledPost{},
		ThisWeek:   []*models.ScheduledPost{},
	}

	for _, post := range posts {
		platforms[post.Platform] = struct{}{}

		switch post.Status {
		case models.PostStatusScheduled, models.PostStatusProcessing:
			summary.Scheduled++
		case models.PostStatusPublished:
			summary.Published++
		case models.PostStatusFailed:
			summary.Failed++
		}

		if post.ScheduledFor.After(now) {
			summary.Upcoming = append(summary.Upcoming, post)
			if !post.ScheduledFor.After(weekAhead) {
				summary.ThisWeek = append(summary.ThisWeek, post)
			}
		}
	}

	summary.PlatformsActive = len(platforms)
	return summary, nil
}
