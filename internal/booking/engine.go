package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"medbooking-server/internal/models"
	"medbooking-server/internal/utils"
)

const (
	// DefaultDurationMinutes is used when the caller does not request a
	// specific consultation length.
	DefaultDurationMinutes = 30
	minDurationMinutes     = 15
	maxDurationMinutes     = 180

	maxReasonLen  = 500
	maxNotesLen   = 1000
	maxCommentLen = 500
)

// Engine implements appointment booking, the status lifecycle and rating
// attachment on top of the appointment and doctor stores.
type Engine struct {
	appointments AppointmentStore
	doctors      DoctorStore
	log          zerolog.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// NewEngine creates a booking engine over the given stores.
func NewEngine(appointments AppointmentStore, doctors DoctorStore, log zerolog.Logger) *Engine {
	return &Engine{
		appointments: appointments,
		doctors:      doctors,
		log:          log,
		now:          time.Now,
	}
}

// CreateInput carries the validated request fields for booking a slot.
type CreateInput struct {
	DoctorID        string
	Date            time.Time // calendar date, time-of-day ignored
	Time            string    // "HH:MM", 24-hour
	Specialty       string
	Reason          string
	Notes           string
	DurationMinutes int // 0 means DefaultDurationMinutes
	IsOnline        bool
	OnlineLink      string
	PaymentMethod   models.PaymentMethod // "" means cash
}

// Create books a new appointment for the acting patient.
//
// The doctor's consultation fee is snapshotted onto the appointment; later
// fee changes never affect existing bookings. The slot conflict pre-check
// below gives the common case a friendly error, but the storage unique
// constraint remains the source of truth, so a constraint violation from a
// concurrent booking is translated to the same conflict error.
func (e *Engine) Create(ctx context.Context, actor Actor, in CreateInput) (*models.Appointment, error) {
	in.Date = dateOnly(in.Date)

	if !in.Date.After(e.now()) {
		return nil, newError(KindValidation, "appointment date must be in the future")
	}
	if !utils.ValidTimeOfDay(in.Time) {
		return nil, newError(KindValidation, "time must be in HH:MM 24-hour format")
	}
	if !models.IsValidSpecialty(in.Specialty) {
		return nil, newError(KindValidation, fmt.Sprintf("unknown specialty %q", in.Specialty))
	}
	if in.IsOnline && in.OnlineLink == "" {
		return nil, newError(KindValidation, "online appointments require a meeting link")
	}
	if len(in.Reason) > maxReasonLen {
		return nil, newError(KindValidation, "reason must be at most 500 characters")
	}
	if len(in.Notes) > maxNotesLen {
		return nil, newError(KindValidation, "notes must be at most 1000 characters")
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = DefaultDurationMinutes
	}
	if in.DurationMinutes < minDurationMinutes || in.DurationMinutes > maxDurationMinutes {
		return nil, newError(KindValidation, "duration must be between 15 and 180 minutes")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, newError(KindValidation, fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}

	doctor, err := e.doctors.Get(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindNotFound, "doctor not found")
		}
		return nil, fmt.Errorf("looking up doctor: %w", err)
	}
	if !doctor.Bookable() {
		return nil, newError(KindInvalidState, "doctor is not currently accepting appointments")
	}

	taken, err := e.appointments.SlotTaken(ctx, in.DoctorID, in.Date, in.Time, "")
	if err != nil {
		return nil, fmt.Errorf("checking slot availability: %w", err)
	}
	if taken {
		return nil, newError(KindConflict, "slot already taken")
	}

	appt := &models.Appointment{
		PatientID:       actor.ID,
		DoctorID:        in.DoctorID,
		Date:            in.Date,
		Time:            in.Time,
		Specialty:       in.Specialty,
		Reason:          in.Reason,
		Notes:           in.Notes,
		Status:          models.StatusScheduled,
		Price:           doctor.ConsultationFee,
		DurationMinutes: in.DurationMinutes,
		IsOnline:        in.IsOnline,
		OnlineLink:      in.OnlineLink,
		PaymentMethod:   in.PaymentMethod,
		Paid:            false,
	}

	if err := e.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrDuplicateSlot) {
			return nil, newError(KindConflict, "slot already taken")
		}
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	return appt, nil
}

// Transition moves an appointment to a new lifecycle status.
func (e *Engine) Transition(ctx context.Context, actor Actor, appointmentID string, newStatus models.AppointmentStatus, notes string) (*models.Appointment, error) {
	appt, err := e.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appt.Status.IsTerminal() {
		return nil, newError(KindInvalidState, fmt.Sprintf("appointment is %s and cannot change status", appt.Status))
	}
	if !allowedTransition(appt.Status, newStatus) {
		return nil, newError(KindInvalidState, fmt.Sprintf("cannot transition from %s to %s", appt.Status, newStatus))
	}

	doctor, err := e.doctors.Get(ctx, appt.DoctorID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up doctor: %w", err)
	}
	var doctorUserID string
	if doctor != nil {
		doctorUserID = doctor.UserID
	}

	if !CanTransition(actor, appt, doctorUserID, newStatus) {
		return nil, newError(KindForbidden, "you are not allowed to perform this status change")
	}

	appt.Status = newStatus
	if notes != "" {
		appt.Notes = notes
	}
	if err := e.appointments.Save(ctx, appt); err != nil {
		return nil, fmt.Errorf("saving appointment: %w", err)
	}
	return appt, nil
}

// Cancel cancels an appointment. Cancellation does not free capacity
// explicitly; the slot becomes available again because cancelled rows are
// excluded from the conflict check and the unique index.
func (e *Engine) Cancel(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error) {
	return e.Transition(ctx, actor, appointmentID, models.StatusCancelled, "")
}

// Reschedule moves a non-terminal appointment to a new future slot. The
// appointment returns to scheduled so the doctor can confirm the new time.
func (e *Engine) Reschedule(ctx context.Context, actor Actor, appointmentID string, newDate time.Time, newTime string) (*models.Appointment, error) {
	newDate = dateOnly(newDate)

	if !newDate.After(e.now()) {
		return nil, newError(KindValidation, "appointment date must be in the future")
	}
	if !utils.ValidTimeOfDay(newTime) {
		return nil, newError(KindValidation, "time must be in HH:MM 24-hour format")
	}

	appt, err := e.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status.IsTerminal() {
		return nil, newError(KindInvalidState, fmt.Sprintf("appointment is %s and cannot be rescheduled", appt.Status))
	}
	if !CanReschedule(actor, appt) {
		return nil, newError(KindForbidden, "you are not allowed to reschedule this appointment")
	}

	taken, err := e.appointments.SlotTaken(ctx, appt.DoctorID, newDate, newTime, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("checking slot availability: %w", err)
	}
	if taken {
		return nil, newError(KindConflict, "slot already taken")
	}

	appt.Date = newDate
	appt.Time = newTime
	appt.Status = models.StatusScheduled
	if err := e.appointments.Save(ctx, appt); err != nil {
		if errors.Is(err, ErrDuplicateSlot) {
			return nil, newError(KindConflict, "slot already taken")
		}
		return nil, fmt.Errorf("saving appointment: %w", err)
	}
	return appt, nil
}

// Rate attaches a rating to a completed appointment and synchronously
// recomputes the doctor's rating aggregate.
//
// If the recompute fails after the rating row is persisted, the rating is
// NOT rolled back: the failure is logged and the call still succeeds, which
// leaves the doctor's aggregate stale until the next successful recompute.
func (e *Engine) Rate(ctx context.Context, actor Actor, appointmentID string, value int, comment string) (*models.Appointment, error) {
	if value < 1 || value > 5 {
		return nil, newError(KindValidation, "rating value must be between 1 and 5")
	}
	if len(comment) > maxCommentLen {
		return nil, newError(KindValidation, "comment must be at most 500 characters")
	}

	appt, err := e.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !CanRate(actor, appt) {
		return nil, newError(KindForbidden, "only the appointment's patient can rate it")
	}
	if appt.Status != models.StatusCompleted {
		return nil, newError(KindInvalidState, "only completed appointments can be rated")
	}
	if appt.HasRating() {
		return nil, newError(KindAlreadyRated, "appointment has already been rated")
	}

	now := e.now()
	appt.RatingValue = &value
	appt.RatingComment = comment
	appt.RatedAt = &now
	if err := e.appointments.Save(ctx, appt); err != nil {
		return nil, fmt.Errorf("saving rating: %w", err)
	}

	if err := e.recomputeDoctorRating(ctx, appt.DoctorID); err != nil {
		// The rating is already persisted; degrade to a warning and let the
		// aggregate stay stale until the next recompute.
		e.log.Warn().Err(err).
			Str("doctor_id", appt.DoctorID).
			Str("appointment_id", appt.ID).
			Msg("rating aggregate recompute failed; doctor rating is stale")
	}

	return appt, nil
}

func (e *Engine) recomputeDoctorRating(ctx context.Context, doctorID string) error {
	values, err := e.appointments.RatedValues(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("loading rated appointments: %w", err)
	}
	summary := Recompute(values)
	if err := e.doctors.UpdateRating(ctx, doctorID, summary); err != nil {
		return fmt.Errorf("updating doctor rating: %w", err)
	}
	return nil
}

// MarkPaid toggles the paid flag. Allowed for admins and the appointment's
// doctor in any status, since payment may settle after completion.
func (e *Engine) MarkPaid(ctx context.Context, actor Actor, appointmentID string, paid bool) (*models.Appointment, error) {
	appt, err := e.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	allowed := actor.Role == models.RoleAdmin
	if !allowed && actor.Role == models.RoleDoctor {
		doctor, err := e.doctors.Get(ctx, appt.DoctorID)
		if err == nil && doctor.UserID == actor.ID {
			allowed = true
		}
	}
	if !allowed {
		return nil, newError(KindForbidden, "you are not allowed to update the payment flag")
	}

	appt.Paid = paid
	if err := e.appointments.Save(ctx, appt); err != nil {
		return nil, fmt.Errorf("saving appointment: %w", err)
	}
	return appt, nil
}

// MarkReminderSent records that the notification job delivered a reminder.
func (e *Engine) MarkReminderSent(ctx context.Context, appointmentID string) error {
	appt, err := e.getAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	now := e.now()
	appt.ReminderSent = true
	appt.ReminderSentAt = &now
	if err := e.appointments.Save(ctx, appt); err != nil {
		return fmt.Errorf("saving appointment: %w", err)
	}
	return nil
}

func (e *Engine) getAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := e.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindNotFound, "appointment not found")
		}
		return nil, fmt.Errorf("looking up appointment: %w", err)
	}
	return appt, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
