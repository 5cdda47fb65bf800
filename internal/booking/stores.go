package booking

import (
	"context"
	"time"

	"medbooking-server/internal/models"
)

// Actor identifies the authenticated principal performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

// AppointmentStore is the persistence surface the engine needs for
// appointments. The production implementation is GORM-backed; tests use an
// in-memory fake.
type AppointmentStore interface {
	Get(ctx context.Context, id string) (*models.Appointment, error)

	// SlotTaken reports whether another appointment occupies the doctor's
	// (date, time) slot. Cancelled and missed appointments do not count;
	// excludeID ignores the appointment being moved during a reschedule.
	SlotTaken(ctx context.Context, doctorID string, date time.Time, timeOfDay string, excludeID string) (bool, error)

	// Create persists a new appointment. Returns ErrDuplicateSlot when the
	// storage uniqueness constraint rejects the row.
	Create(ctx context.Context, appt *models.Appointment) error

	// Save persists changes to an existing appointment. Returns
	// ErrDuplicateSlot when a slot move collides.
	Save(ctx context.Context, appt *models.Appointment) error

	// RatedValues returns the rating values of all the doctor's currently
	// rated appointments.
	RatedValues(ctx context.Context, doctorID string) ([]int, error)
}

// DoctorStore is the provider directory surface the engine needs.
type DoctorStore interface {
	Get(ctx context.Context, id string) (*models.Doctor, error)
	UpdateRating(ctx context.Context, doctorID string, summary models.RatingSummary) error
}
