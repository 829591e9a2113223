package encounter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotAdmitted is matched by every command rejection caused by the patient
// no longer being admitted.
var ErrNotAdmitted = errors.New("patient is not currently admitted")

// AlreadyDischargedError is returned when discharging an encounter that has
// already ended.
type AlreadyDischargedError struct {
	PatientID uuid.UUID
}

func (e *AlreadyDischargedError) Error() string {
	return fmt.Sprintf("unable to discharge patient with id %s: %v", e.PatientID, ErrNotAdmitted)
}

func (e *AlreadyDischargedError) Unwrap() error {
	return ErrNotAdmitted
}

// TransferOfDischargedPatientError is returned when transferring a patient
// whose encounter has already ended.
type TransferOfDischargedPatientError struct {
	PatientID uuid.UUID
	Ward      uint32
}

func (e *TransferOfDischargedPatientError) Error() string {
	return fmt.Sprintf("unable to transfer patient with id %s to ward %d: %v", e.PatientID, e.Ward, ErrNotAdmitted)
}

func (e *TransferOfDischargedPatientError) Unwrap() error {
	return ErrNotAdmitted
}
