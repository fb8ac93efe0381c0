package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"not null"`
	Email      string    `gorm:"uniqueIndex;not null"`
	Role       Role      `gorm:"not null;check:role IN ('STUDENT','TEACHER','ADMIN')"`
	SchoolID   uuid.UUID `gorm:"not null;index"`
	CreatedAt  time.Time
	LastSeenAt time.Time
}
