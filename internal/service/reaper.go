package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/geofeed/internal/media"
	"github.com/d60-Lab/geofeed/internal/repository"
	"github.com/d60-Lab/geofeed/pkg/logger"
)

// Reaper physically purges expired posts and their blobs. Visibility never
// depends on it: the query service filters by age at read time, so the
// reaper only reclaims storage.
type Reaper struct {
	postRepo repository.PostRepository
	blobs    media.Store
	interval time.Duration
	batch    int
	now      func() time.Time
}

func NewReaper(postRepo repository.PostRepository, blobs media.Store, interval time.Duration, batch int) *Reaper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if batch <= 0 {
		batch = 500
	}
	return &Reaper{postRepo: postRepo, blobs: blobs, interval: interval, batch: batch, now: time.Now}
}

// Start runs the purge loop in a goroutine and returns a stop function.
func (r *Reaper) Start() func(context.Context) error {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if _, err := r.ReapOnce(context.Background()); err != nil {
					logger.Warn("reap pass failed", zap.Error(err))
				}
			}
		}
	}()
	return func(ctx context.Context) error { close(stop); return nil }
}

// ReapOnce purges one batch of expired posts and reports how many rows it
// removed. Blob deletion failures are logged and skipped; the rows are
// already gone and the blobs expire on their own.
func (r *Reaper) ReapOnce(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-VisibilityWindow)
	expired, err := r.postRepo.ListCreatedBefore(ctx, cutoff, r.batch)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, p := range expired {
		if err := r.postRepo.DeleteByID(ctx, p.ID); err != nil {
			// Already raced away by a credentialed delete; fine either way.
			continue
		}
		purged++
		if err := r.blobs.Delete(ctx, p.ImageRef); err != nil {
			logger.Warn("expired blob not deleted",
				zap.String("post_id", p.ID), zap.String("ref", p.ImageRef), zap.Error(err))
		}
	}
	if purged > 0 {
		logger.Info("reaped expired posts", zap.Int("count", purged))
	}
	return purged, nil
}
