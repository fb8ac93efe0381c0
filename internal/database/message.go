package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/models"
)

func (d *Database) SaveMessage(ctx context.Context, msg *models.Message) error {
	if err := d.Write(ctx).Create(msg).Error; err != nil {
		return storeErr(err, domain.ErrStoreUnavailable)
	}
	return nil
}

// GetAppointmentMessages returns the appointment's log ordered by creation
// time ascending, ties broken by id, optionally only rows strictly after the
// keyset message, so repeated calls with the last returned id walk toward
// the tail of the log. Served from the replica.
func (d *Database) GetAppointmentMessages(ctx context.Context, appointmentID uuid.UUID, limit int, after *uuid.UUID) ([]models.Message, error) {
	q := d.Read(ctx).Where("appointment_id = ?", appointmentID)

	if after != nil {
		var mark models.Message
		if err := d.Read(ctx).First(&mark, "id = ?", *after).Error; err != nil {
			return nil, storeErr(err, domain.ErrValidation)
		}
		q = q.Where("(created_at, id) > (?, ?)", mark.CreatedAt, mark.ID)
	}

	var messages []models.Message
	err := q.Order("created_at ASC").Order("id ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, storeErr(err, domain.ErrStoreUnavailable)
	}
	return messages, nil
}
