package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/schoolink/comms/internal/models"
)

func TestVisibilityFor(t *testing.T) {
	userID := uuid.New()
	schoolID := uuid.New()

	t.Run("student is owner scoped", func(t *testing.T) {
		vis := VisibilityFor(models.RoleStudent, userID, schoolID)
		require.Equal(t, VisibilityOwner, vis.Kind)
		require.Equal(t, userID, vis.UserID)
		require.Equal(t, schoolID, vis.SchoolID)
	})

	t.Run("teacher is owner scoped", func(t *testing.T) {
		vis := VisibilityFor(models.RoleTeacher, userID, schoolID)
		require.Equal(t, VisibilityOwner, vis.Kind)
	})

	t.Run("admin is school scoped", func(t *testing.T) {
		vis := VisibilityFor(models.RoleAdmin, userID, schoolID)
		require.Equal(t, VisibilitySchool, vis.Kind)
		require.Equal(t, schoolID, vis.SchoolID)
	})
}
