package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolink/comms/internal/models"
)

type CreateAppointmentRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,uuid"`
	Note      string `json:"note" binding:"max=1000"`
}

type AppointmentResponse struct {
	ID        uuid.UUID                `json:"id"`
	StudentID uuid.UUID                `json:"student_id"`
	TeacherID uuid.UUID                `json:"teacher_id"`
	Status    models.AppointmentStatus `json:"status"`
	Note      string                   `json:"note,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

func NewAppointmentResponse(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		StudentID: a.StudentID,
		TeacherID: a.TeacherID,
		Status:    a.Status,
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
	}
}
