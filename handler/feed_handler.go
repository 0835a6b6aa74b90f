package handler

import (
	"net/http"

	"github.com/annazecevic/music-service/middleware"
	"github.com/annazecevic/music-service/service"
	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feed service.FeedService
}

func NewFeedHandler(feed service.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

func (h *FeedHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	api.GET("/home", g.Optional, h.Home)
	api.GET("/playlists/:id/home", g.Required, h.PlaylistHome)
}

// GET /api/v1/home?search=
func (h *FeedHandler) Home(c *gin.Context) {
	var userID *string
	if id := c.GetString(middleware.ContextUserID); id != "" {
		userID = &id
	}

	var search *string
	if q, ok := c.GetQuery("search"); ok {
		search = &q
	}

	view, err := h.feed.ComposeHome(c.Request.Context(), userID, search)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/v1/playlists/:id/home
func (h *FeedHandler) PlaylistHome(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.feed.ComposePlaylist(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
