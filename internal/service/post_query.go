package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/geofeed/internal/geo"
	"github.com/d60-Lab/geofeed/internal/model"
	"github.com/d60-Lab/geofeed/internal/repository"
	"github.com/d60-Lab/geofeed/pkg/logger"
)

const (
	// VisibilityWindow is how long a post stays visible after creation.
	VisibilityWindow = 3 * time.Hour

	// VisibilityRadiusKm bounds how far a viewer can be from a post.
	VisibilityRadiusKm = 1.0
)

// FeedService computes the visible feed for a viewer location.
type FeedService interface {
	// GetVisiblePosts returns posts strictly newer than now-3h and within
	// 1 km of the viewer, in store order. On a store failure it returns an
	// empty slice together with the error: the feed degrades to "nothing
	// nearby" instead of breaking the view.
	GetVisiblePosts(ctx context.Context, viewerLat, viewerLng float64) ([]*model.Post, error)
}

type feedService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

func NewFeedService(postRepo repository.PostRepository) FeedService {
	return &feedService{postRepo: postRepo, now: time.Now}
}

func (s *feedService) GetVisiblePosts(ctx context.Context, viewerLat, viewerLng float64) ([]*model.Post, error) {
	threshold := s.now().Add(-VisibilityWindow)
	candidates, err := s.postRepo.ListCreatedAfter(ctx, threshold)
	if err != nil {
		logger.Warn("feed query degraded to empty", zap.Error(err))
		return []*model.Post{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	visible := make([]*model.Post, 0, len(candidates))
	for _, p := range candidates {
		if geo.Distance(viewerLat, viewerLng, p.Lat, p.Lng) <= VisibilityRadiusKm {
			visible = append(visible, p)
		}
	}
	return visible, nil
}
