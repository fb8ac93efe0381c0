package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/models"
)

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := d.Read(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, storeErr(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

// ListTeachers backs the appointment request form.
func (d *Database) ListTeachers(ctx context.Context, schoolID uuid.UUID) ([]models.User, error) {
	var teachers []models.User
	err := d.Read(ctx).
		Where("school_id = ? AND role = ?", schoolID, models.RoleTeacher).
		Order("name ASC").
		Find(&teachers).Error
	if err != nil {
		return nil, storeErr(err, domain.ErrStoreUnavailable)
	}
	return teachers, nil
}

func (d *Database) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	err := d.Write(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now()).Error
	if err != nil {
		return storeErr(err, domain.ErrStoreUnavailable)
	}
	return nil
}
