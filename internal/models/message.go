package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AppointmentID uuid.UUID `gorm:"not null;index:idx_messages_appointment_created,priority:1"`
	SenderID      uuid.UUID `gorm:"not null"`
	Content       string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index:idx_messages_appointment_created,priority:2"`

	Sender      User        `gorm:"foreignKey:SenderID"`
	Appointment Appointment `gorm:"foreignKey:AppointmentID"`
}
