// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"dwellr/internal/models"
	"dwellr/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post. The unique index on media_key is the authority on
// key binding: a concurrent create for the same key loses with
// gorm.ErrDuplicatedKey, never a check-then-act race.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create")()
	return r.db.WithContext(ctx).Create(post).Error
}

// List returns one feed page, newest first. The id ASC tie-break makes the
// ordering total, so pages never skip or duplicate a row when equal
// timestamps straddle a page boundary.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("list")()
	posts := make([]*models.Post, 0, limit)
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	defer observability.TrackQuery("count")()
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}
