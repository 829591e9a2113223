package driver

import (
	"context"
	"errors"
	"time"
)

// Event is a stored event row.
type Event struct {
	ID               string
	AggregateID      string
	AggregateVersion int
	Type             string
	Payload          []byte
	RecordedAt       time.Time
}

// ErrConcurrency is returned on event version conflict when saving Aggregate
var ErrConcurrency = errors.New("concurrency triggered")

type Codec interface {
	Unmarshal(data []byte, dest interface{}) error
	Marshal(src interface{}) ([]byte, error)
}

// Backend persists event streams. Load returns the events of one aggregate
// ordered by version. Save writes all events or none of them.
type Backend interface {
	Load(ctx context.Context, id string) ([]Event, error)
	Save(ctx context.Context, events []Event) error
	Codec() Codec
}
