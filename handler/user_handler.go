package handler

import (
	"net/http"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/dto"
	"github.com/annazecevic/music-service/service"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes the social graph and user administration.
type UserHandler struct {
	users  service.UserService
	social service.SocialService
}

func NewUserHandler(users service.UserService, social service.SocialService) *UserHandler {
	return &UserHandler{users: users, social: social}
}

func (h *UserHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	users := api.Group("/users", g.Required)
	users.GET("", h.List)
	users.GET("/:id", h.Get)
	users.POST("/:id/follow", h.Follow)
	users.POST("/:id/unfollow", h.Unfollow)
	users.GET("/:id/followers", h.Followers)
	users.GET("/:id/following", h.Following)
	users.PUT("/:id/role", g.Admin, h.UpdateRole)
}

// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/v1/users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.social.Follow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "following"})
}

// POST /api/v1/users/:id/unfollow
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.social.Unfollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// GET /api/v1/users/:id/followers
func (h *UserHandler) Followers(c *gin.Context) {
	id := c.Param("id")
	ids, err := h.social.Followers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FollowListResponse{UserID: id, IDs: ids})
}

// GET /api/v1/users/:id/following
func (h *UserHandler) Following(c *gin.Context) {
	id := c.Param("id")
	ids, err := h.social.Following(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FollowListResponse{UserID: id, IDs: ids})
}

// PUT /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), actorID, c.Param("id"), domain.Role(req.Role)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}
