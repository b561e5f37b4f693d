package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/geofeed/internal/model"
)

// ErrPostNotFound is returned when the referenced post id does not exist.
var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	// Create inserts a fully-built post. The caller assigns ID and CreatedAt.
	Create(ctx context.Context, post *model.Post) error

	// ListCreatedAfter returns posts strictly newer than threshold, in
	// creation order. A post created exactly at threshold is excluded.
	ListCreatedAfter(ctx context.Context, threshold time.Time) ([]*model.Post, error)

	// ListCreatedBefore returns up to limit posts created at or before
	// cutoff, oldest first. Used by the expiry reaper.
	ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*model.Post, error)

	// GetByID returns the post or ErrPostNotFound.
	GetByID(ctx context.Context, id string) (*model.Post, error)

	// DeleteByID removes the row. Returns ErrPostNotFound when no row was
	// deleted, so concurrent deletes of the same id resolve to exactly one
	// winner.
	DeleteByID(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) ListCreatedAfter(ctx context.Context, threshold time.Time) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("created_at > ?", threshold).
		Order("created_at ASC").
		Find(&res).Error
	return res, err
}

func (r *postRepository) ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("created_at <= ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) DeleteByID(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
