package handler

import (
	"errors"
	"net/http"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/dto"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/middleware"
	"github.com/annazecevic/music-service/service"
	"github.com/annazecevic/music-service/storage"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ContentHandler struct {
	content service.ContentService
}

func NewContentHandler(content service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	api.GET("/tracks", h.ListTracks)
	api.GET("/tracks/:trackId", h.GetTrack)
	api.POST("/tracks", g.Required, g.Admin, h.CreateTrack)

	playlists := api.Group("/playlists", g.Required)
	playlists.POST("", h.CreatePlaylist)
	playlists.GET("/mine", h.MyPlaylists)
	playlists.GET("/:id", h.GetPlaylist)
	playlists.POST("/:id/tracks", h.AddTrack)
	playlists.DELETE("/:id/tracks/:trackId", h.RemoveTrack)
	playlists.DELETE("/:id", h.DeletePlaylist)
}

// GET /api/v1/tracks?search=
func (h *ContentHandler) ListTracks(c *gin.Context) {
	tracks, err := h.content.SearchTracks(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

// GET /api/v1/tracks/:trackId
func (h *ContentHandler) GetTrack(c *gin.Context) {
	track, err := h.content.GetTrack(c.Request.Context(), c.Param("trackId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}

// POST /api/v1/tracks (multipart: title, artist, genres, optional file)
func (h *ContentHandler) CreateTrack(c *gin.Context) {
	var req dto.CreateTrackRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and artist are required"})
		return
	}

	track := &domain.Track{Title: req.Title, Artist: req.Artist, Genres: req.Genres}

	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		h.createMetadataOnly(c, track)
		return
	}
	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		h.createMetadataOnly(c, track)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart body"})
		return
	}

	if err := middleware.ValidateAudioUpload(header); err != nil {
		logger.Warn(logger.EventValidationFailure, "Rejected track upload", logger.Fields(
			"user_id", c.GetString(middleware.ContextUserID),
			"filename", header.Filename,
			"error", err.Error(),
		))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer file.Close()

	if err := h.content.UploadTrack(c.Request.Context(), track, header.Filename, file, header.Size); err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, track)
}

func (h *ContentHandler) createMetadataOnly(c *gin.Context, track *domain.Track) {
	if err := h.content.CreateTrack(c.Request.Context(), track); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, track)
}

// POST /api/v1/playlists
func (h *ContentHandler) CreatePlaylist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	p, err := h.content.CreatePlaylist(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /api/v1/playlists/mine
func (h *ContentHandler) MyPlaylists(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	playlists, err := h.content.ListPlaylistsByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlists)
}

// GET /api/v1/playlists/:id
func (h *ContentHandler) GetPlaylist(c *gin.Context) {
	p, err := h.content.GetPlaylist(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/v1/playlists/:id/tracks
func (h *ContentHandler) AddTrack(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.AddTrackToPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_url is required"})
		return
	}

	if err := h.content.AddTrackToPlaylist(c.Request.Context(), userID, c.Param("id"), req.FileURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "track added"})
}

// DELETE /api/v1/playlists/:id/tracks/:trackId
func (h *ContentHandler) RemoveTrack(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.content.RemoveTrackFromPlaylist(c.Request.Context(), userID, c.Param("id"), c.Param("trackId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "track removed"})
}

// DELETE /api/v1/playlists/:id
func (h *ContentHandler) DeletePlaylist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.content.DeletePlaylist(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
