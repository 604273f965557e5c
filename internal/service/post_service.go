// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"
	"errors"
	"time"

	"dwellr/internal/cache"
	"dwellr/internal/models"
	"dwellr/internal/observability"
	"dwellr/internal/repository"
	"dwellr/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultPageSize matches the mobile client's feed page size.
	DefaultPageSize = 5
	// MaxPageSize is the server-side clamp for the limit query param.
	MaxPageSize = 50
)

type PostService struct {
	repo repository.PostRepository
	now  func() time.Time
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo, now: time.Now}
}

// CreatePost validates the body, stamps identity and timestamps, and
// persists the post. The same mediaKey can never be bound twice: the store's
// unique index decides the winner of a concurrent race and the loser gets a
// CONFLICT.
func (s *PostService) CreatePost(ctx context.Context, username string, body models.CreatePostBody) (*models.Post, error) {
	if appErr := validation.Struct(&body); appErr != nil {
		return nil, appErr
	}

	now := models.NewTimestamp(s.now().UTC())
	post := &models.Post{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		MediaKey:  body.MediaKey,
		Metadata:  body.Metadata,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("mediaKey is already bound to a post")
		}
		return nil, models.NewInternalError(err)
	}

	observability.PostsCreated.Inc()
	cache.InvalidateFeed(ctx)
	return post, nil
}

// ListPosts returns one feed page ordered newest first. A short page means
// the feed is genuinely exhausted; an out-of-range offset yields an empty
// page, not an error.
func (s *PostService) ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	if offset < 0 {
		return nil, models.NewValidationError("offset must be non-negative", "offset")
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	posts := make([]*models.Post, 0, limit)
	err := cache.Aside(ctx, cache.FeedKey(ctx, offset, limit), &posts, cache.FeedTTL, func() error {
		loaded, err := s.repo.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		posts = loaded
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if posts == nil {
		posts = make([]*models.Post, 0)
	}
	return posts, nil
}
