package handler

import (
	"errors"
	"mime"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/geofeed/internal/media"
	"github.com/d60-Lab/geofeed/pkg/response"
)

// GetMedia serves a post image blob. Expired blobs are plain 404s.
// @Summary Fetch image
// @Tags media
// @Produce octet-stream
// @Param key path string true "blob key"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /media/{key} [get]
func (h *Handler) GetMedia(c *gin.Context) {
	key := c.Param("key")
	data, err := h.blobs.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, media.ErrBlobNotFound) {
			response.NotFound(c, "media not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	ct := mime.TypeByExtension(filepath.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Data(200, ct, data)
}
