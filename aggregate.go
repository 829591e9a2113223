package encounter

// AggregateRoot is the replay/record protocol of an event-sourced aggregate.
//
// Apply derives the next state from one event and is used both when replaying
// stored history and, through Raise, when recording a new fact. Raise is the
// only way an event enters the uncommitted buffer; the buffer is emptied by
// ClearUncommittedEvents once the caller has persisted it.
type AggregateRoot[ID comparable, E any] interface {
	// ID panics if no event has been applied yet.
	ID() ID
	Version() int
	UncommittedEvents() []E
	ClearUncommittedEvents()
	Apply(e E)
	Raise(e E)
}

var _ AggregateRoot[PatientID, Event] = (*Encounter)(nil)
