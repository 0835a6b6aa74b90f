package handler

import (
	"net/http"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/dto"
	"github.com/annazecevic/music-service/service"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subs  service.SubscriptionService
	users service.UserService
	now   func() time.Time
}

func NewSubscriptionHandler(subs service.SubscriptionService, users service.UserService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, users: users, now: time.Now}
}

func (h *SubscriptionHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	subs := api.Group("/subscriptions")
	subs.GET("/plans", h.ListPlans)
	subs.POST("", g.Required, h.Subscribe)
	subs.GET("/me", g.Required, h.GetMine)
}

// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if (req.PlanID == "") == (req.Days == 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of days or plan_id is required"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var sub *domain.UserSubscription
	if req.PlanID != "" {
		sub, err = h.subs.SubscribeToPlan(c.Request.Context(), user.Username, req.PlanID)
	} else {
		sub, err = h.subs.Subscribe(c.Request.Context(), user.Username, req.Days)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, h.now()))
}

// GET /api/v1/subscriptions/me
func (h *SubscriptionHandler) GetMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sub, err := h.subs.GetActive(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active subscription"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, h.now()))
}

// GET /api/v1/subscriptions/plans
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subs.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}
