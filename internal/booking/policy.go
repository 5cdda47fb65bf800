package booking

import "medbooking-server/internal/models"

// allowedTransition reports whether the status state machine permits moving
// from one status to another. Terminal statuses (completed, cancelled,
// missed) admit no further transitions, and nothing transitions back into
// scheduled.
func allowedTransition(from, to models.AppointmentStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch to {
	case models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled, models.StatusMissed:
		return to != from
	default:
		return false
	}
}

// CanTransition reports whether the actor may move the appointment to
// newStatus. Cancellation belongs to the owning patient or an admin; all
// other transitions belong to the appointment's doctor or an admin.
// doctorUserID is the user account behind the appointment's doctor profile.
func CanTransition(actor Actor, appt *models.Appointment, doctorUserID string, newStatus models.AppointmentStatus) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	switch newStatus {
	case models.StatusCancelled:
		return actor.Role == models.RolePatient && actor.ID == appt.PatientID
	case models.StatusConfirmed, models.StatusCompleted, models.StatusMissed:
		return actor.Role == models.RoleDoctor && actor.ID == doctorUserID
	default:
		return false
	}
}

// CanRate reports whether the actor may attach a rating to the appointment.
// Only the owning patient rates; status and once-only checks live in the
// engine because they produce distinct error kinds.
func CanRate(actor Actor, appt *models.Appointment) bool {
	return actor.ID == appt.PatientID
}

// CanReschedule reports whether the actor may move the appointment to a new
// slot.
func CanReschedule(actor Actor, appt *models.Appointment) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RolePatient && actor.ID == appt.PatientID
}
