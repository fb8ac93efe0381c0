package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/schoolink/comms/internal/handlers"
	"github.com/schoolink/comms/internal/middleware"
	"github.com/schoolink/comms/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	apptH *handlers.AppointmentHandler,
	msgH *handlers.MessageHandler,
	userH *handlers.UserHandler,
	sessionH *handlers.SessionHandler,
	socketH *handlers.SocketHandler,
) {
	authMW := middleware.AuthMiddleware(jwtMgr, rdb)

	api := r.Group("/api/v1", authMW)
	{
		api.POST("/session/revoke", sessionH.Revoke)
		api.GET("/me", userH.Me)
		api.GET("/teachers", userH.Teachers)

		api.POST("/appointments", apptH.Create)
		api.GET("/appointments", apptH.List)
		api.GET("/appointments/:id", apptH.Get)
		api.POST("/appointments/:id/approve", apptH.Approve)
		api.POST("/appointments/:id/reject", apptH.Reject)
		api.POST("/appointments/:id/complete", apptH.Complete)

		api.GET("/appointments/:id/messages", msgH.List)
		api.POST("/appointments/:id/messages", msgH.Send)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), socketH.Upgrade)
}
