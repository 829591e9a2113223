package driver

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// InMemory is a Backend keeping events in process memory.
type InMemory struct {
	store    map[string][]Event
	evtsSeen map[string]map[int]struct{}
	mu       sync.RWMutex
}

var _ Backend = (*InMemory)(nil)

func (m *InMemory) Codec() Codec {
	return JSON{}
}

func (m *InMemory) Load(ctx context.Context, id string) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := slices.Clone(m.store[id])
	slices.SortFunc(res, func(a, b Event) int {
		return cmp.Compare(a.AggregateVersion, b.AggregateVersion)
	})
	return res, nil
}

func (m *InMemory) Save(ctx context.Context, events []Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.evtsSeen == nil {
		m.evtsSeen = make(map[string]map[int]struct{})
	}
	if m.store == nil {
		m.store = make(map[string][]Event)
	}
	pending := make(map[string]map[int]struct{})
	for _, e := range events {
		if _, ok := m.evtsSeen[e.AggregateID][e.AggregateVersion]; ok {
			return ErrConcurrency
		}
		if _, ok := pending[e.AggregateID][e.AggregateVersion]; ok {
			return ErrConcurrency
		}
		if pending[e.AggregateID] == nil {
			pending[e.AggregateID] = make(map[int]struct{})
		}
		pending[e.AggregateID][e.AggregateVersion] = struct{}{}
	}
	for _, e := range events {
		evtsSeen := m.evtsSeen[e.AggregateID]
		if evtsSeen == nil {
			evtsSeen = make(map[int]struct{})
			m.evtsSeen[e.AggregateID] = evtsSeen
		}
		evtsSeen[e.AggregateVersion] = struct{}{}
		m.store[e.AggregateID] = append(m.store[e.AggregateID], e)
	}
	return nil
}
