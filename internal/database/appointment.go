package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/models"
)

func (d *Database) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if err := d.Write(ctx).Create(appt).Error; err != nil {
		return storeErr(err, domain.ErrStoreUnavailable)
	}
	return nil
}

// GetAppointmentPrimary fetches through the primary. Use for every check
// that may follow a write in the same request, and for every authorization
// decision a write depends on.
func (d *Database) GetAppointmentPrimary(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return d.getAppointment(d.ReadAfterWrite(ctx), id)
}

// GetAppointment fetches through the replica; staleness acceptable.
func (d *Database) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return d.getAppointment(d.Read(ctx), id)
}

func (d *Database) getAppointment(q *gorm.DB, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := q.First(&appt, "id = ?", id).Error; err != nil {
		return nil, storeErr(err, domain.ErrAppointmentNotFound)
	}
	return &appt, nil
}

// ListAppointments serves the scoped listing from the replica, newest first.
func (d *Database) ListAppointments(ctx context.Context, vis Visibility) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := vis.apply(d.Read(ctx).Model(&models.Appointment{})).
		Order("created_at DESC").
		Find(&appts).Error
	if err != nil {
		return nil, storeErr(err, domain.ErrStoreUnavailable)
	}
	return appts, nil
}

// TransitionAppointment moves the row from one status to another with the
// row locked for the duration, so concurrent transitions on the same
// appointment serialize and exactly one wins. The returned record carries
// the committed post-write state.
func (d *Database) TransitionAppointment(ctx context.Context, id uuid.UUID, from, to models.AppointmentStatus) (*models.Appointment, error) {
	var appt models.Appointment

	err := d.Write(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&appt, "id = ?", id).Error; err != nil {
			return storeErr(err, domain.ErrAppointmentNotFound)
		}

		if appt.Status != from {
			return domain.ErrInvalidState
		}

		if err := tx.Model(&appt).Update("status", to).Error; err != nil {
			return storeErr(err, domain.ErrStoreUnavailable)
		}
		appt.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &appt, nil
}
