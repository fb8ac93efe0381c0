package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/models"
	"github.com/schoolink/comms/pkg/auth"
)

const IdentityKey = "identity"

// Identity pulls the resolved caller out of the gin context.
func Identity(c *gin.Context) domain.Identity {
	return c.MustGet(IdentityKey).(domain.Identity)
}

// AuthMiddleware verifies the bearer token, rejects revoked ones and puts
// the caller's identity into the context. Everything past this point only
// authorizes, never authenticates.
func AuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abortUnauthorized(c, "missing or invalid token")
			return
		}
		resolveIdentity(c, token, jwtManager, redisClient)
	}
}

// WSAuthMiddleware accepts the token from the query string as well, since
// browser websocket clients cannot set headers on the upgrade request.
func WSAuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			abortUnauthorized(c, "missing token")
			return
		}
		resolveIdentity(c, token, jwtManager, redisClient)
	}
}

func resolveIdentity(c *gin.Context, token string, jwtManager *auth.JWTManager, redisClient *redis.Client) {
	exists, err := redisClient.Exists(context.Background(), "blacklist:"+token).Result()
	if err != nil || exists > 0 {
		abortUnauthorized(c, "token is revoked")
		return
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		abortUnauthorized(c, "invalid token")
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		abortUnauthorized(c, "invalid user id")
		return
	}
	schoolID, err := uuid.Parse(claims.SchoolID)
	if err != nil {
		abortUnauthorized(c, "invalid school id")
		return
	}

	c.Set(IdentityKey, domain.Identity{
		UserID:   userID,
		Role:     models.Role(claims.Role),
		SchoolID: schoolID,
	})
	c.Next()
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": msg})
	c.Abort()
}
