package handler

import (
	"time"

	"github.com/d60-Lab/geofeed/internal/media"
	"github.com/d60-Lab/geofeed/internal/model"
	"github.com/d60-Lab/geofeed/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	feedService service.FeedService
	postService service.PostService
	blobs       media.Store
	reaper      *service.Reaper
}

func New(feedService service.FeedService, postService service.PostService, blobs media.Store, reaper *service.Reaper) *Handler {
	return &Handler{feedService: feedService, postService: postService, blobs: blobs, reaper: reaper}
}

type postResponse struct {
	ID        string    `json:"id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	ImageURL  string    `json:"image_url"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Lat:       p.Lat,
		Lng:       p.Lng,
		ImageURL:  "/media/" + p.ImageRef,
		Comment:   p.Comment,
		CreatedAt: p.CreatedAt,
	}
}
