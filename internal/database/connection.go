package database

import (
	"errors"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/schoolink/comms/internal/models"
)

// Connect opens the primary from DATABASE_URL and the replica from
// DATABASE_READ_URL. Without a replica URL, reads fall back to the primary.
// Migrations run against the primary only.
func Connect() (*Database, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	primary, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := primary.AutoMigrate(&models.User{}, &models.Appointment{}, &models.Message{}); err != nil {
		return nil, err
	}

	replica := primary
	if readDSN := os.Getenv("DATABASE_READ_URL"); readDSN != "" {
		replica, err = gorm.Open(postgres.Open(readDSN), &gorm.Config{})
		if err != nil {
			return nil, err
		}
	}

	return NewDatabase(primary, replica), nil
}
