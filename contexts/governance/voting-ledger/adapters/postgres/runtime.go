package postgresadapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SystemClock reports UTC time truncated to the microsecond precision of a
// Postgres timestamptz, so an event re-read from the outbox compares equal to
// the one that was written.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// UUIDGenerator issues UUIDv7 event ids; they sort by creation time, which
// keeps the outbox primary key index append-mostly.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
