package models

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusApproved  AppointmentStatus = "APPROVED"
	StatusRejected  AppointmentStatus = "REJECTED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID uuid.UUID         `gorm:"not null;index"`
	TeacherID uuid.UUID         `gorm:"not null;index"`
	SchoolID  uuid.UUID         `gorm:"not null;index"`
	Status    AppointmentStatus `gorm:"not null;default:'PENDING';check:status IN ('PENDING','APPROVED','REJECTED','COMPLETED')"`
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time

	Student User `gorm:"foreignKey:StudentID"`
	Teacher User `gorm:"foreignKey:TeacherID"`
}

// CanTransition reports whether moving to target is legal from the current
// status. REJECTED and COMPLETED are terminal, APPROVED never goes back.
func (a *Appointment) CanTransition(target AppointmentStatus) bool {
	switch a.Status {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved:
		return target == StatusCompleted
	default:
		return false
	}
}

// IsParticipant is recomputed on every access check, never cached: the set
// of allowed identities is exactly {student, teacher} of this record.
func (a *Appointment) IsParticipant(userID uuid.UUID) bool {
	return userID == a.StudentID || userID == a.TeacherID
}
