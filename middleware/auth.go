package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// Claims carries the user id in the registered subject claim.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

var errMissingToken = errors.New("authorization header required")

func IssueToken(secret, userID, username string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseBearer(c *gin.Context, secret string) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("invalid authorization header format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func setPrincipal(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
}

func logTokenFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		logger.Security(logger.EventExpiredToken, "Access attempt with expired token", logger.Fields("ip", c.ClientIP()))
	default:
		logger.Security(logger.EventInvalidToken, "Access attempt with invalid token", logger.Fields(
			"ip", c.ClientIP(),
			"path", c.FullPath(),
		))
	}
}

func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, jwtSecret)
		if err != nil {
			logTokenFailure(c, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the principal when a valid token is present. Requests
// without a token pass through anonymously; a bad token is still rejected.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, jwtSecret)
		if errors.Is(err, errMissingToken) {
			c.Next()
			return
		}
		if err != nil {
			logTokenFailure(c, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

// RoleLookup returns the role currently stored for a user.
type RoleLookup func(ctx context.Context, userID string) (domain.Role, error)

// AdminOnly rejects non-admin tokens. With a lookup it also re-reads the
// stored role, so a demotion takes effect before the token expires.
func AdminOnly(lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if c.GetString(ContextRole) != string(domain.RoleAdmin) {
			denyAdmin(c, userID, "Admin access denied")
			return
		}
		if lookup == nil {
			c.Next()
			return
		}

		role, err := lookup(c.Request.Context(), userID)
		if err != nil && !domain.IsNotFound(err) {
			logger.Error(logger.EventDBError, "Failed to load role", logger.Fields(
				"user_id", userID,
				"error", err,
			))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if err != nil || role != domain.RoleAdmin {
			denyAdmin(c, userID, "Admin role revoked since token issue")
			return
		}
		c.Set(ContextRole, string(role))
		c.Next()
	}
}

func denyAdmin(c *gin.Context, userID, message string) {
	logger.Security(logger.EventAccessDenied, message, logger.Fields(
		"user_id", userID,
		"ip", c.ClientIP(),
	))
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
}
