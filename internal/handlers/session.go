package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/schoolink/comms/pkg/auth"
)

// SessionHandler revokes tokens locally. Issuance belongs to the external
// session provider; revocation is ours because the blacklist gate lives in
// our middleware.
type SessionHandler struct {
	jwtManager *auth.JWTManager
	redis      *redis.Client
}

func NewSessionHandler(jwtManager *auth.JWTManager, rdb *redis.Client) *SessionHandler {
	return &SessionHandler{jwtManager: jwtManager, redis: rdb}
}

// Revoke blacklists the presented token until it would have expired anyway.
func (h *SessionHandler) Revoke(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	ttl := time.Until(exp)
	if ttl > 0 {
		h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl)
	}

	c.Status(http.StatusOK)
}
