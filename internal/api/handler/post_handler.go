package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/geofeed/internal/service"
	"github.com/d60-Lab/geofeed/pkg/response"
)

type feedRequest struct {
	Lat *float64 `form:"lat" binding:"required,latitude"`
	Lng *float64 `form:"lng" binding:"required,longitude"`
}

// GetFeed returns the posts currently visible around the viewer.
// @Summary Nearby feed
// @Tags feed
// @Produce json
// @Param lat query number true "viewer latitude"
// @Param lng query number true "viewer longitude"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	// A store failure degrades to an empty feed; the service already
	// logged it and the viewer just sees nothing nearby.
	posts, _ := h.feedService.GetVisiblePosts(c.Request.Context(), *req.Lat, *req.Lng)
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	response.Success(c, gin.H{"posts": out})
}

type createPostRequest struct {
	Lat      *float64 `form:"lat" binding:"required,latitude"`
	Lng      *float64 `form:"lng" binding:"required,longitude"`
	Comment  string   `form:"comment" binding:"max=40,singleline"`
	Password string   `form:"password" binding:"max=8"`
}

// CreatePost publishes an anonymous post from a multipart form.
// @Summary Create post
// @Tags posts
// @Accept mpfd
// @Produce json
// @Param image formData file true "image"
// @Param lat formData number true "latitude"
// @Param lng formData number true "longitude"
// @Param comment formData string false "comment (max 40 chars)"
// @Param password formData string false "delete password (max 8 chars)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "cannot read image")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, "cannot read image")
		return
	}
	ext := strings.TrimPrefix(filepath.Ext(fh.Filename), ".")

	post, err := h.postService.CreatePost(c.Request.Context(), *req.Lat, *req.Lng, data, ext, req.Comment, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toPostResponse(post))
}

type deletePostRequest struct {
	Password string `json:"password"`
}

// DeletePost removes a post when the supplied password matches.
// @Summary Delete post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "post id"
// @Param request body deletePostRequest false "delete credential"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	var req deletePostRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrUnauthorized):
			response.Forbidden(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}
