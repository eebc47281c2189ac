package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/repository"
	"github.com/dsnmoura/thrg-flow/internal/transfer"
)

// Hourly slots the scheduling form offers.
var TimeSlots = []string{
	"06:00", "07:00", "08:00", "09:00", "10:00", "11:00",
	"12:00", "13:00", "14:00", "15:00", "16:00", "17:00",
	"18:00", "19:00", "20:00", "21:00", "22:00", "23:00",
}

// Advisory per-platform engagement hints. Never part of validation.
var optimalTimes = map[string][]string{
	models.PlatformInstagram: {"09:00", "11:00", "14:00", "17:00", "19:00"},
	models.PlatformLinkedIn:  {"08:00", "09:00", "12:00", "17:00", "18:00"},
	models.PlatformTiktok:    {"06:00", "10:00", "19:00", "20:00", "21:00"},
}

type ScheduleService interface {
	SchedulePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.ScheduledPost, time.Duration, error)
	CancelPost(ctx context.Context, userID, postID int64) error
	List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.ScheduledPost, error)
	OptimalTimes(platform string) []string
}

type scheduleService struct {
	pr         repository.PostRepository
	defaultLoc *time.Location

	// Per-owner mirror of the last fetched post list. Invalidated on
	// every successful mutation, refilled lazily on the next read.
	mu    sync.RWMutex
	cache map[int64][]*models.ScheduledPost
}

func NewScheduleService(pr repository.PostRepository, defaultTimezone string) (ScheduleService, error) {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", defaultTimezone, err)
	}
	return &scheduleService{
		pr:         pr,
		defaultLoc: loc,
		cache:      make(map[int64][]*models.ScheduledPost),
	}, nil
}

// validate checks completeness and combines date and time into a UTC
// instant. Field checks run before any time math so a missing field is
// always reported as such.
func (s *scheduleService) validate(pc *transfer.PostCreation, now time.Time) (time.Time, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"title", pc.Title},
		{"content", pc.Content},
		{"platform", pc.Platform},
		{"date", pc.Date},
		{"time", pc.Time},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return time.Time{}, models.NewMissingFieldError(f.name)
		}
	}

	if !models.IsSupportedPlatform(pc.Platform) {
		return time.Time{}, &models.ValidationError{Reason: models.ReasonInvalidField, Field: "platform"}
	}

	loc := s.defaultLoc
	if pc.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(pc.Timezone)
		if err != nil {
			return time.Time{}, &models.ValidationError{Reason: models.ReasonInvalidField, Field: "timezone"}
		}
	}

	day, err := time.ParseInLocation("2006-01-02", pc.Date, loc)
	if err != nil {
		return time.Time{}, &models.ValidationError{Reason: models.ReasonInvalidField, Field: "date"}
	}
	slot, err := time.Parse("15:04", pc.Time)
	if err != nil || slot.Minute() != 0 || slot.Hour() < 6 {
		return time.Time{}, &models.ValidationError{Reason: models.ReasonInvalidField, Field: "time"}
	}

	scheduledFor := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour(), 0, 0, 0, loc).UTC()
	if !scheduledFor.After(now) {
		return time.Time{}, models.NewPastScheduleError()
	}
	return scheduledFor, nil
}

// SchedulePost validates the submission, persists it with status
// scheduled and returns the stored record plus the delay until it is
// due, for the delayed publish task.
func (s *scheduleService) SchedulePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.ScheduledPost, time.Duration, error) {
	if pc == nil {
		return nil, 0, models.NewMissingFieldError("post")
	}

	scheduledFor, err := s.validate(pc, time.Now().UTC())
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	if userID == 0 {
		slog.Info("schedule attempt without authenticated user")
		return nil, 0, models.ErrAuthRequired
	}

	post := &models.ScheduledPost{
		UserID:       userID,
		Title:        pc.Title,
		Content:      pc.Content,
		Platform:     pc.Platform,
		ScheduledFor: scheduledFor,
		Status:       models.PostStatusScheduled,
	}
	if pc.TemplateID != "" {
		templateID := pc.TemplateID
		post.TemplateID = &templateID
	}
	if pc.ImageURL != "" {
		imageURL := pc.ImageURL
		post.ImageURL = &imageURL
	}

	id, err := s.pr.Create(ctx, post)
	if err != nil {
		return nil, 0, &models.PersistenceError{Op: "create post", Err: err}
	}

	stored, err := s.pr.GetByID(ctx, id)
	if err != nil || stored == nil {
		// Insert succeeded; fall back to the draft with the new id.
		post.ID = id
		stored = post
	}

	s.invalidate(userID)

	delay := time.Until(stored.ScheduledFor)
	if delay < 0 {
		delay = 0
	}
	return stored, delay, nil
}

// CancelPost deletes a post while it is still scheduled. The store
// enforces ownership and state, so a post already picked up by the
// dispatcher cannot be cancelled.
func (s *scheduleService) CancelPost(ctx context.Context, userID, postID int64) error {
	if userID == 0 {
		return models.ErrAuthRequired
	}
	if postID == 0 {
		return &models.ValidationError{Reason: models.ReasonInvalidField, Field: "id"}
	}

	removed, err := s.pr.RemoveScheduled(ctx, postID, userID)
	if err != nil {
		return &models.PersistenceError{Op: "remove post", Err: err}
	}
	if !removed {
		slog.Info("cancel rejected", "post_id", postID, "user_id", userID)
		return models.ErrNotCancellable
	}

	s.invalidate(userID)
	return nil
}

func (s *scheduleService) List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	if userID == 0 {
		return nil, models.ErrAuthRequired
	}

	s.mu.RLock()
	cached, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list posts", Err: err}
	}

	s.mu.Lock()
	s.cache[userID] = posts
	s.mu.Unlock()
	return posts, nil
}

func (s *scheduleService) PostInfo(ctx context.Context, postID, userID int64) (*models.ScheduledPost, error) {
	if userID == 0 {
		return nil, models.ErrAuthRequired
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "get post", Err: err}
	}
	if post == nil || post.UserID != userID {
		return nil, models.ErrPostNotFound
	}
	return post, nil
}

func (s *scheduleService) OptimalTimes(platform string) []string {
	return optimalTimes[platform]
}

func (s *scheduleService) invalidate(userID int64) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}

// IsValidationError reports whether err belongs to the recoverable
// client-side taxonomy, for handlers picking a status code.
func IsValidationError(err error) bool {
	var ve *models.ValidationError
	return errors.As(err, &ve)
}
