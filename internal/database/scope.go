package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolink/comms/internal/models"
)

type VisibilityKind int

const (
	// VisibilityOwner limits the query to rows the user participates in.
	VisibilityOwner VisibilityKind = iota
	// VisibilitySchool covers every row of the user's school.
	VisibilitySchool
)

// Visibility is a query scope value: instead of branching on role strings at
// every call site, handlers resolve the caller's identity to one of these and
// the store applies it uniformly.
type Visibility struct {
	Kind     VisibilityKind
	UserID   uuid.UUID
	SchoolID uuid.UUID
}

// VisibilityFor maps a role to its scope. Admins see the whole school,
// students and teachers only appointments they are a party to.
func VisibilityFor(role models.Role, userID, schoolID uuid.UUID) Visibility {
	if role == models.RoleAdmin {
		return Visibility{Kind: VisibilitySchool, SchoolID: schoolID}
	}
	return Visibility{Kind: VisibilityOwner, UserID: userID, SchoolID: schoolID}
}

func (v Visibility) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("school_id = ?", v.SchoolID)
	if v.Kind == VisibilityOwner {
		q = q.Where("student_id = ? OR teacher_id = ?", v.UserID, v.UserID)
	}
	return q
}
