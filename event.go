package encounter

import "github.com/google/uuid"

// Event is a fact that has happened to an Encounter. The set of events is
// closed: only the types declared in this file implement it.
type Event interface {
	EventName() string
	isEncounterEvent()
}

type PatientAdmitted struct {
	PatientID   uuid.UUID `json:"patientId"`
	PatientName string    `json:"patientName"`
	AgeInYears  uint32    `json:"ageInYears"`
	Ward        uint32    `json:"ward"`
}

func (PatientAdmitted) EventName() string { return "PatientAdmitted" }
func (PatientAdmitted) isEncounterEvent() {}

type PatientDischarged struct {
	PatientID uuid.UUID `json:"patientId"`
}

func (PatientDischarged) EventName() string { return "PatientDischarged" }
func (PatientDischarged) isEncounterEvent() {}

type PatientTransferred struct {
	PatientID uuid.UUID `json:"patientId"`
	Ward      uint32    `json:"ward"`
}

func (PatientTransferred) EventName() string { return "PatientTransferred" }
func (PatientTransferred) isEncounterEvent() {}
