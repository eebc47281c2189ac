package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dsnmoura/thrg-flow/internal/models"
)

// MemoryPostRepository is an in-memory PostRepository for tests and
// local runs without Postgres. Same contract as the SQL implementation,
// including the atomic claim.
type MemoryPostRepository struct {
	mu     sync.RWMutex
	nextID int64
	posts  map[int64]*models.ScheduledPost
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		nextID: 1,
		posts:  make(map[int64]*models.ScheduledPost),
	}
}

func (r *MemoryPostRepository) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *post
	stored.ID = r.nextID
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.posts[stored.ID] = &stored
	r.nextID++
	return stored.ID, nil
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *post
	return &cp, nil
}

func (r *MemoryPostRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var posts []*models.ScheduledPost
	for _, post := range r.posts {
		if post.UserID == userID {
			cp := *post
			posts = append(posts, &cp)
		}
	}
	sortByScheduledFor(posts)
	return posts, nil
}

func (r *MemoryPostRepository) GetDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var posts []*models.ScheduledPost
	for _, post := range r.posts {
		if post.Status == models.PostStatusScheduled && !post.ScheduledFor.After(now) {
			cp := *post
			posts = append(posts, &cp)
		}
	}
	sortByScheduledFor(posts)
	return posts, nil
}

func (r *MemoryPostRepository) ClaimForPublishing(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusScheduled {
		return false, nil
	}
	post.Status = models.PostStatusProcessing
	post.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *MemoryPostRepository) MarkPublished(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return models.ErrPostNotFound
	}
	post.Status = models.PostStatusPublished
	post.ErrorMessage = nil
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryPostRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return models.ErrPostNotFound
	}
	post.Status = models.PostStatusFailed
	post.ErrorMessage = &errorMessage
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryPostRepository) RemoveScheduled(ctx context.Context, id, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok || post.UserID != userID || post.Status != models.PostStatusScheduled {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

func sortByScheduledFor(posts []*models.ScheduledPost) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].ScheduledFor.Equal(posts[j].ScheduledFor) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].ScheduledFor.Before(posts[j].ScheduledFor)
	})
}
