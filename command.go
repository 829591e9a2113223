package encounter

import "context"

// Command changes an existing encounter. A command returns the domain error
// of a rejected change and leaves the encounter untouched in that case.
type Command interface {
	Execute(ctx context.Context, enc *Encounter) error
}

type Discharge struct{}

func (Discharge) Execute(_ context.Context, enc *Encounter) error {
	return enc.Discharge()
}

type Transfer struct {
	Ward uint32
}

func (t Transfer) Execute(_ context.Context, enc *Encounter) error {
	return enc.Transfer(t.Ward)
}

// CommandFunc adapts a function to Command.
type CommandFunc func(ctx context.Context, enc *Encounter) error

func (fn CommandFunc) Execute(ctx context.Context, enc *Encounter) error {
	return fn(ctx, enc)
}

type aggregateIDKey struct{}

func withAggregateID(ctx context.Context, id PatientID) context.Context {
	return context.WithValue(ctx, aggregateIDKey{}, id)
}

// AggregateID returns the ID of the encounter a command is executed on.
func AggregateID(ctx context.Context) (PatientID, bool) {
	id, ok := ctx.Value(aggregateIDKey{}).(PatientID)
	return id, ok
}
