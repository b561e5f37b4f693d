package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/geofeed/internal/media"
	"github.com/d60-Lab/geofeed/internal/model"
	"github.com/d60-Lab/geofeed/internal/repository"
	"github.com/d60-Lab/geofeed/pkg/logger"
)

const (
	MaxCommentLen  = 40
	MaxPasswordLen = 8
)

// PostService creates and deletes posts.
type PostService interface {
	// CreatePost stores the image blob, then the record. A blob orphaned
	// by a failed record insert is not cleaned up here; it expires on its
	// own and the reaper never needs to know about it.
	CreatePost(ctx context.Context, lat, lng float64, image []byte, ext, comment, password string) (*model.Post, error)

	// DeletePost removes a post iff the supplied password matches the one
	// set at creation. Posts created without a password cannot be deleted
	// this way, whatever is supplied. Blob removal is best effort.
	DeletePost(ctx context.Context, id, password string) error

	// ForceDeletePost removes a post without a credential check. Reserved
	// for the admin surface.
	ForceDeletePost(ctx context.Context, id string) error
}

type postService struct {
	postRepo repository.PostRepository
	blobs    media.Store
	now      func() time.Time
}

func NewPostService(postRepo repository.PostRepository, blobs media.Store) PostService {
	return &postService{postRepo: postRepo, blobs: blobs, now: time.Now}
}

func (s *postService) CreatePost(ctx context.Context, lat, lng float64, image []byte, ext, comment, password string) (*model.Post, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrValidation)
	}
	if len([]rune(comment)) > MaxCommentLen {
		return nil, fmt.Errorf("%w: comment longer than %d characters", ErrValidation, MaxCommentLen)
	}
	if len([]rune(password)) > MaxPasswordLen {
		return nil, fmt.Errorf("%w: password longer than %d characters", ErrValidation, MaxPasswordLen)
	}

	ref, err := s.blobs.Put(ctx, image, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		hash = string(h)
	}

	post := &model.Post{
		ID:             uuid.NewString(),
		Lat:            lat,
		Lng:            lng,
		ImageRef:       ref,
		Comment:        comment,
		DeletePassword: hash,
		CreatedAt:      s.now(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		// The blob just written is now orphaned; its TTL bounds the leak.
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id, password string) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !post.HasDeletePassword() {
		return fmt.Errorf("%w: post has no delete password", ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(post.DeletePassword), []byte(password)) != nil {
		return fmt.Errorf("%w: password mismatch", ErrUnauthorized)
	}

	if err := s.postRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			// Lost a race with a concurrent delete; the post is gone.
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.blobs.Delete(ctx, post.ImageRef); err != nil {
		logger.Warn("orphaned blob after post delete",
			zap.String("post_id", id), zap.String("ref", post.ImageRef), zap.Error(err))
	}
	return nil
}

func (s *postService) ForceDeletePost(ctx context.Context, id string) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.postRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.blobs.Delete(ctx, post.ImageRef); err != nil {
		logger.Warn("orphaned blob after admin delete",
			zap.String("post_id", id), zap.String("ref", post.ImageRef), zap.Error(err))
	}
	return nil
}
