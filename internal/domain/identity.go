package domain

import (
	"github.com/google/uuid"

	"github.com/schoolink/comms/internal/models"
)

// Identity is the authenticated caller as resolved by the session layer
// before any core operation runs. The core never authenticates, it only
// authorizes against this value.
type Identity struct {
	UserID   uuid.UUID
	Role     models.Role
	SchoolID uuid.UUID
}
