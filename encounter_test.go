package encounter_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mixins/encounter"
)

func admitPatient(t *testing.T) (*encounter.Encounter, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	return encounter.New(id, "Fred Jones", 32, 45), id
}

func TestAdmitPatient(t *testing.T) {
	enc, id := admitPatient(t)

	assert.Equal(t, []encounter.Event{
		encounter.PatientAdmitted{PatientID: id, PatientName: "Fred Jones", AgeInYears: 32, Ward: 45},
	}, enc.UncommittedEvents())
	assert.Equal(t, id, enc.ID())
	assert.Equal(t, "Fred Jones", enc.PatientName())
	assert.Equal(t, uint32(32), enc.AgeInYears())
	assert.Equal(t, uint32(45), enc.Ward())
	assert.Equal(t, encounter.Admitted, enc.Status())
	admitted, ok := enc.CurrentlyAdmitted()
	assert.True(t, ok)
	assert.True(t, admitted)
	assert.Equal(t, 0, enc.Version())
}

func TestDischargePatient(t *testing.T) {
	enc, id := admitPatient(t)

	require.NoError(t, enc.Discharge())

	assert.Equal(t, []encounter.Event{
		encounter.PatientAdmitted{PatientID: id, PatientName: "Fred Jones", AgeInYears: 32, Ward: 45},
		encounter.PatientDischarged{PatientID: id},
	}, enc.UncommittedEvents())
	admitted, ok := enc.CurrentlyAdmitted()
	assert.True(t, ok)
	assert.False(t, admitted)
	assert.Equal(t, encounter.Discharged, enc.Status())
}

func TestDischargeAlreadyDischargedPatient(t *testing.T) {
	enc, id := admitPatient(t)
	require.NoError(t, enc.Discharge())
	before := enc.State()

	err := enc.Discharge()

	var target *encounter.AlreadyDischargedError
	require.True(t, errors.As(err, &target), "expected AlreadyDischargedError, got %v", err)
	assert.Equal(t, id, target.PatientID)
	assert.ErrorIs(t, err, encounter.ErrNotAdmitted)
	assert.Len(t, enc.UncommittedEvents(), 2)
	assert.Equal(t, before, enc.State())
}

func TestTransferPatient(t *testing.T) {
	enc, id := admitPatient(t)

	require.NoError(t, enc.Transfer(22))

	assert.Equal(t, []encounter.Event{
		encounter.PatientAdmitted{PatientID: id, PatientName: "Fred Jones", AgeInYears: 32, Ward: 45},
		encounter.PatientTransferred{PatientID: id, Ward: 22},
	}, enc.UncommittedEvents())
	assert.Equal(t, uint32(22), enc.Ward())
	assert.Equal(t, encounter.Admitted, enc.Status())
}

func TestTransferDischargedPatient(t *testing.T) {
	enc, id := admitPatient(t)
	require.NoError(t, enc.Discharge())
	before := enc.State()

	err := enc.Transfer(22)

	var target *encounter.TransferOfDischargedPatientError
	require.True(t, errors.As(err, &target), "expected TransferOfDischargedPatientError, got %v", err)
	assert.Equal(t, id, target.PatientID)
	assert.Equal(t, uint32(22), target.Ward)
	assert.ErrorIs(t, err, encounter.ErrNotAdmitted)
	assert.Len(t, enc.UncommittedEvents(), 2)
	assert.Equal(t, uint32(45), enc.Ward())
	assert.Equal(t, before, enc.State())
}

func TestErrorMessages(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")

	assert.EqualError(t, &encounter.AlreadyDischargedError{PatientID: id},
		"unable to discharge patient with id 7d444840-9dc0-11d1-b245-5ffdce74fad2: patient is not currently admitted")
	assert.EqualError(t, &encounter.TransferOfDischargedPatientError{PatientID: id, Ward: 22},
		"unable to transfer patient with id 7d444840-9dc0-11d1-b245-5ffdce74fad2 to ward 22: patient is not currently admitted")
}

func TestReplayConsistency(t *testing.T) {
	tests := []struct {
		name     string
		commands func(*encounter.Encounter) error
	}{
		{"admit only", func(*encounter.Encounter) error { return nil }},
		{"discharge", func(e *encounter.Encounter) error { return e.Discharge() }},
		{"transfers", func(e *encounter.Encounter) error {
			return errors.Join(e.Transfer(22), e.Transfer(7), e.Transfer(45))
		}},
		{"transfer then discharge", func(e *encounter.Encounter) error {
			return errors.Join(e.Transfer(22), e.Discharge())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live, _ := admitPatient(t)
			require.NoError(t, tt.commands(live))

			replayed := encounter.Rehydrate(live.UncommittedEvents()...)

			assert.Equal(t, live.State(), replayed.State())
			assert.Empty(t, replayed.UncommittedEvents())
		})
	}

	t.Run("replay then raise matches linear apply", func(t *testing.T) {
		live, _ := admitPatient(t)
		require.NoError(t, live.Transfer(22))
		history := live.UncommittedEvents()

		loaded := encounter.Rehydrate(history...)
		require.NoError(t, loaded.Discharge())
		require.Len(t, loaded.UncommittedEvents(), 1)

		linear := encounter.Rehydrate(append(append([]encounter.Event{}, history...), loaded.UncommittedEvents()...)...)

		assert.Equal(t, linear.State(), loaded.State())
	})
}

func TestApplyDoesNotRecord(t *testing.T) {
	var enc encounter.Encounter
	id := uuid.New()

	enc.Apply(encounter.PatientAdmitted{PatientID: id, PatientName: "Ann", AgeInYears: 70, Ward: 3})
	enc.Apply(encounter.PatientTransferred{PatientID: id, Ward: 4})

	assert.Empty(t, enc.UncommittedEvents())
	assert.Equal(t, uint32(4), enc.Ward())
	assert.Equal(t, 1, enc.Version())
}

func TestClearUncommittedEvents(t *testing.T) {
	enc, _ := admitPatient(t)
	require.NoError(t, enc.Transfer(22))
	before := enc.State()

	enc.ClearUncommittedEvents()
	assert.Empty(t, enc.UncommittedEvents())
	assert.Equal(t, before, enc.State())

	enc.ClearUncommittedEvents()
	assert.Empty(t, enc.UncommittedEvents())
	assert.Equal(t, before, enc.State())

	require.NoError(t, enc.Discharge())
	assert.Equal(t, []encounter.Event{encounter.PatientDischarged{PatientID: before.PatientID}}, enc.UncommittedEvents())
}

func TestVersion(t *testing.T) {
	var enc encounter.Encounter
	assert.Equal(t, -1, enc.Version())

	id := uuid.New()
	enc.Raise(encounter.PatientAdmitted{PatientID: id, Ward: 1})
	assert.Equal(t, 0, enc.Version())
	require.NoError(t, enc.Transfer(2))
	assert.Equal(t, 1, enc.Version())
	require.NoError(t, enc.Discharge())
	assert.Equal(t, 2, enc.Version())

	_ = enc.Discharge()
	assert.Equal(t, 2, enc.Version(), "rejected command must not advance version")
}

func TestUninitializedEncounter(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		var enc encounter.Encounter
		assert.Equal(t, encounter.Uninitialized, enc.Status())
		_, ok := enc.CurrentlyAdmitted()
		assert.False(t, ok)
	})
	t.Run("ID panics", func(t *testing.T) {
		var enc encounter.Encounter
		assert.Panics(t, func() { enc.ID() })
	})
	t.Run("discharge panics", func(t *testing.T) {
		var enc encounter.Encounter
		assert.PanicsWithValue(t, "encounter not initialized", func() { _ = enc.Discharge() })
	})
	t.Run("transfer panics", func(t *testing.T) {
		var enc encounter.Encounter
		assert.PanicsWithValue(t, "encounter not initialized", func() { _ = enc.Transfer(3) })
	})
	t.Run("replay must start with admission", func(t *testing.T) {
		var enc encounter.Encounter
		assert.Panics(t, func() { enc.Apply(encounter.PatientDischarged{PatientID: uuid.New()}) })
		assert.Equal(t, -1, enc.Version())
	})
}

func TestSecondAdmissionPanics(t *testing.T) {
	enc, id := admitPatient(t)
	before := enc.State()

	assert.Panics(t, func() {
		enc.Apply(encounter.PatientAdmitted{PatientID: uuid.New(), PatientName: "Other"})
	})
	assert.Equal(t, before, enc.State())
	assert.Equal(t, id, enc.ID())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "uninitialized", encounter.Uninitialized.String())
	assert.Equal(t, "admitted", encounter.Admitted.String())
	assert.Equal(t, "discharged", encounter.Discharged.String())
	assert.Equal(t, "Status(7)", encounter.Status(7).String())
}
