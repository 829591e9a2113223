package encounter

import (
	"fmt"

	"github.com/google/uuid"
)

// PatientID identifies an Encounter.
type PatientID = uuid.UUID

// Status is the admission state of an Encounter.
type Status int

const (
	Uninitialized Status = iota
	Admitted
	Discharged
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Admitted:
		return "admitted"
	case Discharged:
		return "discharged"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// State is the derived state of an Encounter. Two encounters built from the
// same event sequence have equal states.
type State struct {
	PatientID   PatientID
	PatientName string
	AgeInYears  uint32
	Ward        uint32
	Status      Status
	Version     int
}

// Encounter is a patient's admission episode. The zero value is an
// uninitialized encounter ready for replay.
//
// An Encounter is not safe for concurrent use.
type Encounter struct {
	state   State
	applied int
	changes []Event
}

// New admits a patient and returns the encounter holding the PatientAdmitted
// event as its only uncommitted change.
func New(id PatientID, name string, ageInYears, ward uint32) *Encounter {
	e := &Encounter{}
	e.Raise(PatientAdmitted{
		PatientID:   id,
		PatientName: name,
		AgeInYears:  ageInYears,
		Ward:        ward,
	})
	return e
}

// Rehydrate rebuilds an encounter from its stored history.
func Rehydrate(history ...Event) *Encounter {
	e := &Encounter{}
	for _, evt := range history {
		e.Apply(evt)
	}
	return e
}

func (e *Encounter) ID() PatientID {
	e.mustBeInitialized()
	return e.state.PatientID
}

// Version is the zero-based number of the last applied event, or -1 when
// nothing has been applied.
func (e *Encounter) Version() int {
	return e.applied - 1
}

// UncommittedEvents returns the events raised since construction or the last
// clear. The returned slice must not be modified.
func (e *Encounter) UncommittedEvents() []Event {
	return e.changes
}

func (e *Encounter) ClearUncommittedEvents() {
	e.changes = nil
}

// Apply panics on an event that cannot follow the current state: an
// admission of an initialized encounter, or anything else before admission.
func (e *Encounter) Apply(evt Event) {
	switch evt := evt.(type) {
	case PatientAdmitted:
		if e.state.Status != Uninitialized {
			panic(fmt.Sprintf("encounter %s already initialized", e.state.PatientID))
		}
		e.whenAdmitted(evt)
	case PatientDischarged:
		e.mustBeInitialized()
		e.state.Status = Discharged
	case PatientTransferred:
		e.mustBeInitialized()
		e.state.Ward = evt.Ward
	default:
		panic(fmt.Sprintf("encounter: unknown event %T", evt))
	}
	e.applied++
}

func (e *Encounter) Raise(evt Event) {
	e.Apply(evt)
	e.changes = append(e.changes, evt)
}

func (e *Encounter) whenAdmitted(evt PatientAdmitted) {
	e.state.PatientID = evt.PatientID
	e.state.PatientName = evt.PatientName
	e.state.AgeInYears = evt.AgeInYears
	e.state.Ward = evt.Ward
	e.state.Status = Admitted
}

// Discharge ends the encounter.
func (e *Encounter) Discharge() error {
	switch e.Status() {
	case Admitted:
		e.Raise(PatientDischarged{PatientID: e.state.PatientID})
		return nil
	case Discharged:
		return &AlreadyDischargedError{PatientID: e.state.PatientID}
	}
	panic(errNotInitialized)
}

// Transfer moves the patient to another ward.
func (e *Encounter) Transfer(ward uint32) error {
	switch e.Status() {
	case Admitted:
		e.Raise(PatientTransferred{PatientID: e.state.PatientID, Ward: ward})
		return nil
	case Discharged:
		return &TransferOfDischargedPatientError{PatientID: e.state.PatientID, Ward: ward}
	}
	panic(errNotInitialized)
}

const errNotInitialized = "encounter not initialized"

func (e *Encounter) mustBeInitialized() {
	if e.state.Status == Uninitialized {
		panic(errNotInitialized)
	}
}

func (e *Encounter) PatientName() string { return e.state.PatientName }
func (e *Encounter) AgeInYears() uint32  { return e.state.AgeInYears }
func (e *Encounter) Ward() uint32        { return e.state.Ward }
func (e *Encounter) Status() Status      { return e.state.Status }

// CurrentlyAdmitted reports whether the patient is admitted. ok is false for
// an uninitialized encounter.
func (e *Encounter) CurrentlyAdmitted() (admitted, ok bool) {
	if e.state.Status == Uninitialized {
		return false, false
	}
	return e.state.Status == Admitted, true
}

// State returns a snapshot of the derived state.
func (e *Encounter) State() State {
	s := e.state
	s.Version = e.Version()
	return s
}
