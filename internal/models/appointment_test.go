package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusCompleted, false},
		{StatusCompleted, StatusApproved, false},
		{StatusCompleted, StatusPending, false},
	}

	for _, tt := range tests {
		appt := Appointment{Status: tt.from}
		require.Equal(t, tt.want, appt.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsParticipant(t *testing.T) {
	appt := Appointment{StudentID: uuid.New(), TeacherID: uuid.New()}

	require.True(t, appt.IsParticipant(appt.StudentID))
	require.True(t, appt.IsParticipant(appt.TeacherID))
	require.False(t, appt.IsParticipant(uuid.New()))
}
