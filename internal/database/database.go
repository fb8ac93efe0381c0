package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/schoolink/comms/internal/domain"
)

// Database routes every query to one of two endpoints over the same schema:
// the primary, which serializes all writes, and a read-only replica that may
// lag behind it. Stateless, shared across requests.
type Database struct {
	primary *gorm.DB
	replica *gorm.DB
}

func NewDatabase(primary, replica *gorm.DB) *Database {
	if replica == nil {
		replica = primary
	}
	return &Database{primary: primary, replica: replica}
}

// Write returns a session on the primary. All mutations go through here.
func (d *Database) Write(ctx context.Context) *gorm.DB {
	return d.primary.WithContext(ctx)
}

// ReadAfterWrite returns a session on the primary. Any code path that
// mutates a record and then branches on its resulting state within the same
// request must read it back through this, never through Read: a replica
// could still be serving the pre-write state.
func (d *Database) ReadAfterWrite(ctx context.Context) *gorm.DB {
	return d.primary.WithContext(ctx)
}

// Read returns a session on the replica. Staleness is bounded by replication
// lag, so this must never gate a security decision that depends on a write
// performed in the same request.
func (d *Database) Read(ctx context.Context) *gorm.DB {
	return d.replica.WithContext(ctx)
}

// storeErr folds store failures into the taxonomy. Record-not-found is the
// caller's business, everything else means the endpoint is unusable.
func storeErr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
