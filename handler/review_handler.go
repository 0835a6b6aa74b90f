package handler

import (
	"net/http"

	"github.com/annazecevic/music-service/dto"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/service"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	tracks := api.Group("/tracks/:trackId")
	tracks.POST("/reviews", g.Required, h.AddReview)
	tracks.GET("/reviews", h.GetReviews)
	tracks.GET("/rating", h.GetAverageRating)
}

// POST /api/v1/tracks/:trackId/reviews
func (h *ReviewHandler) AddReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	trackID := c.Param("trackId")

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(logger.EventValidationFailure, "Invalid review request", logger.Fields(
			"user_id", userID,
			"track_id", trackID,
			"error", err.Error(),
		))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.reviews.AddReview(c.Request.Context(), trackID, userID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GET /api/v1/tracks/:trackId/reviews
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	reviews, err := h.reviews.GetReviews(c.Request.Context(), c.Param("trackId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GET /api/v1/tracks/:trackId/rating
func (h *ReviewHandler) GetAverageRating(c *gin.Context) {
	trackID := c.Param("trackId")
	avg, err := h.reviews.GetAverageRating(c.Request.Context(), trackID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AverageRatingResponse{TrackID: trackID, Average: avg})
}
