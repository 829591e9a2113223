package encounter

import (
	"context"
	"errors"
	"fmt"
	"time"

	events "github.com/andviro/go-events"
	"github.com/rs/xid"

	"github.com/go-mixins/encounter/driver"
)

// ErrNotFound is returned when loading an encounter with no stored events.
var ErrNotFound = errors.New("encounter not found")

// Notification is delivered to subscribers for every saved event.
type Notification struct {
	AggregateID      PatientID
	AggregateVersion int
	Event            Event
}

type Repository struct {
	Backend driver.Backend
	Codec   Codec

	notifier events.Event[Notification]
}

func NewRepository(backend driver.Backend) *Repository {
	return &Repository{
		Backend: backend,
		Codec:   Codec{Codec: backend.Codec()},
	}
}

// Subscribe registers fn to be called for every event saved after the call.
// Delivery is asynchronous. The returned function removes the subscription.
func (r *Repository) Subscribe(fn func(Notification)) (unsubscribe func()) {
	return r.notifier.Handle(fn)
}

// Load replays the stored history of the encounter.
func (r *Repository) Load(ctx context.Context, id PatientID) (*Encounter, error) {
	evtDTOs, err := r.Backend.Load(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if len(evtDTOs) == 0 {
		return nil, fmt.Errorf("loading encounter %s: %w", id, ErrNotFound)
	}
	evts := make([]Event, len(evtDTOs))
	for i, e := range evtDTOs {
		if e.AggregateVersion != i {
			return nil, fmt.Errorf("loading encounter %s: event %d stored at version %d", id, i, e.AggregateVersion)
		}
		evt, err := r.Codec.Unmarshal(e.Type, e.Payload)
		if err != nil {
			return nil, fmt.Errorf("loading encounter %s: %w", id, err)
		}
		evts[i] = evt
	}
	return Rehydrate(evts...), nil
}

// Save persists the uncommitted events of enc and clears them. The events
// are numbered after the version enc was loaded at, so a concurrent writer
// makes Save fail with driver.ErrConcurrency and leaves enc untouched.
func (r *Repository) Save(ctx context.Context, enc *Encounter) error {
	evts := enc.UncommittedEvents()
	if len(evts) == 0 {
		return nil
	}
	id := enc.ID()
	version := enc.Version() - len(evts) + 1
	recordedAt := time.Now().UTC()
	evtDTOs := make([]driver.Event, len(evts))
	for i, evt := range evts {
		data, err := r.Codec.Marshal(evt)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", evt.EventName(), err)
		}
		evtDTOs[i] = driver.Event{
			ID:               xid.New().String(),
			AggregateID:      id.String(),
			AggregateVersion: version + i,
			Type:             evt.EventName(),
			Payload:          data,
			RecordedAt:       recordedAt,
		}
	}
	if err := r.Backend.Save(ctx, evtDTOs); err != nil {
		return err
	}
	enc.ClearUncommittedEvents()
	r.notify(id, version, evts)
	return nil
}

func (r *Repository) notify(id PatientID, version int, evts []Event) {
	for i, evt := range evts {
		r.notifier.Invoke(Notification{
			AggregateID:      id,
			AggregateVersion: version + i,
			Event:            evt,
		})
	}
}
