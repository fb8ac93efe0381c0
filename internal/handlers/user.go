package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/database"
	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/middleware"
)

type UserHandler struct {
	db     *database.Database
	logger *zap.Logger
}

func NewUserHandler(db *database.Database, logger *zap.Logger) *UserHandler {
	return &UserHandler{db: db, logger: logger}
}

// Me echoes the session identity plus the stored profile.
func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.Identity(c)

	user, err := h.db.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		c.JSON(domain.HTTPStatus(err), gin.H{"message": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"school_id": user.SchoolID,
	})
}

// Teachers lists the teachers of the caller's school, for the appointment
// request form.
func (h *UserHandler) Teachers(c *gin.Context) {
	actor := middleware.Identity(c)

	teachers, err := h.db.ListTeachers(c.Request.Context(), actor.SchoolID)
	if err != nil {
		h.logger.Error("list teachers failed", zap.Error(err))
		c.JSON(domain.HTTPStatus(err), gin.H{"message": "failed to list teachers"})
		return
	}

	out := make([]gin.H, len(teachers))
	for i, t := range teachers {
		out[i] = gin.H{"id": t.ID, "name": t.Name, "email": t.Email}
	}
	c.JSON(http.StatusOK, gin.H{"teachers": out})
}
