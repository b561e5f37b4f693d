package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/geofeed/internal/service"
	"github.com/d60-Lab/geofeed/pkg/response"
)

// AdminDeletePost removes a post without a credential check. This is the
// out-of-band path for moderation and for posts created without a password.
// @Summary Force-delete post (admin)
// @Tags admin
// @Produce json
// @Param id path string true "post id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/admin/posts/{id} [delete]
func (h *Handler) AdminDeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.postService.ForceDeletePost(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminReap runs one purge pass over expired posts.
// @Summary Purge expired posts now (admin)
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/admin/reap [post]
func (h *Handler) AdminReap(c *gin.Context) {
	purged, err := h.reaper.ReapOnce(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"purged": purged})
}
