package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medbooking-server/internal/models"
)

func TestAllowedTransition(t *testing.T) {
	tests := []struct {
		from models.AppointmentStatus
		to   models.AppointmentStatus
		want bool
	}{
		{models.StatusScheduled, models.StatusConfirmed, true},
		{models.StatusScheduled, models.StatusCancelled, true},
		{models.StatusScheduled, models.StatusCompleted, true},
		{models.StatusScheduled, models.StatusMissed, true},
		{models.StatusConfirmed, models.StatusCompleted, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusMissed, true},
		{models.StatusConfirmed, models.StatusScheduled, false},
		{models.StatusScheduled, models.StatusScheduled, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusScheduled, false},
		{models.StatusMissed, models.StatusConfirmed, false},
		{models.StatusScheduled, models.AppointmentStatus("bogus"), false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, allowedTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransition(t *testing.T) {
	appt := &models.Appointment{PatientID: "patient-1"}
	const doctorUserID = "doc-user-1"

	tests := []struct {
		name      string
		actor     Actor
		newStatus models.AppointmentStatus
		want      bool
	}{
		{"admin can do anything", Actor{ID: "x", Role: models.RoleAdmin}, models.StatusCompleted, true},
		{"owner patient cancels", Actor{ID: "patient-1", Role: models.RolePatient}, models.StatusCancelled, true},
		{"other patient cannot cancel", Actor{ID: "patient-2", Role: models.RolePatient}, models.StatusCancelled, false},
		{"patient cannot confirm", Actor{ID: "patient-1", Role: models.RolePatient}, models.StatusConfirmed, false},
		{"own doctor confirms", Actor{ID: doctorUserID, Role: models.RoleDoctor}, models.StatusConfirmed, true},
		{"own doctor completes", Actor{ID: doctorUserID, Role: models.RoleDoctor}, models.StatusCompleted, true},
		{"own doctor marks missed", Actor{ID: doctorUserID, Role: models.RoleDoctor}, models.StatusMissed, true},
		{"other doctor cannot complete", Actor{ID: "doc-user-2", Role: models.RoleDoctor}, models.StatusCompleted, false},
		{"doctor cannot cancel for patient", Actor{ID: doctorUserID, Role: models.RoleDoctor}, models.StatusCancelled, false},
		{"clinic admin has no say", Actor{ID: "ca-1", Role: models.RoleClinicAdmin}, models.StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.actor, appt, doctorUserID, tt.newStatus))
		})
	}
}

func TestCanRate(t *testing.T) {
	appt := &models.Appointment{PatientID: "patient-1"}

	assert.True(t, CanRate(Actor{ID: "patient-1", Role: models.RolePatient}, appt))
	assert.False(t, CanRate(Actor{ID: "patient-2", Role: models.RolePatient}, appt))
	// Even admins do not rate on a patient's behalf
	assert.False(t, CanRate(Actor{ID: "admin-1", Role: models.RoleAdmin}, appt))
}

func TestCanReschedule(t *testing.T) {
	appt := &models.Appointment{PatientID: "patient-1"}

	assert.True(t, CanReschedule(Actor{ID: "patient-1", Role: models.RolePatient}, appt))
	assert.True(t, CanReschedule(Actor{ID: "admin-1", Role: models.RoleAdmin}, appt))
	assert.False(t, CanReschedule(Actor{ID: "patient-2", Role: models.RolePatient}, appt))
	assert.False(t, CanReschedule(Actor{ID: "doc-user-1", Role: models.RoleDoctor}, appt))
}
