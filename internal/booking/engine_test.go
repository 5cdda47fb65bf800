package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbooking-server/internal/models"
)

// fakeAppointmentStore keeps appointments in memory and enforces the slot
// uniqueness constraint the way the database unique index would.
type fakeAppointmentStore struct {
	appts  map[string]*models.Appointment
	nextID int

	// skipPreCheck makes SlotTaken always report free, simulating a
	// concurrent booking that slips past the pre-check and is only caught
	// by the storage constraint.
	skipPreCheck   bool
	ratedValuesErr error
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{appts: map[string]*models.Appointment{}}
}

func (s *fakeAppointmentStore) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appt, ok := s.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

func (s *fakeAppointmentStore) SlotTaken(ctx context.Context, doctorID string, date time.Time, timeOfDay string, excludeID string) (bool, error) {
	if s.skipPreCheck {
		return false, nil
	}
	return s.slotOccupied(doctorID, date, timeOfDay, excludeID), nil
}

func (s *fakeAppointmentStore) slotOccupied(doctorID string, date time.Time, timeOfDay string, excludeID string) bool {
	for _, a := range s.appts {
		if a.ID == excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == timeOfDay &&
			a.Status != models.StatusCancelled && a.Status != models.StatusMissed {
			return true
		}
	}
	return false
}

func (s *fakeAppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.Status != models.StatusCancelled && appt.Status != models.StatusMissed {
		if s.slotOccupied(appt.DoctorID, appt.Date, appt.Time, "") {
			return ErrDuplicateSlot
		}
	}
	s.nextID++
	appt.ID = fmt.Sprintf("appt-%d", s.nextID)
	copied := *appt
	s.appts[appt.ID] = &copied
	return nil
}

func (s *fakeAppointmentStore) Save(ctx context.Context, appt *models.Appointment) error {
	if _, ok := s.appts[appt.ID]; !ok {
		return ErrNotFound
	}
	if appt.Status != models.StatusCancelled && appt.Status != models.StatusMissed {
		if s.slotOccupied(appt.DoctorID, appt.Date, appt.Time, appt.ID) {
			return ErrDuplicateSlot
		}
	}
	copied := *appt
	s.appts[appt.ID] = &copied
	return nil
}

func (s *fakeAppointmentStore) RatedValues(ctx context.Context, doctorID string) ([]int, error) {
	if s.ratedValuesErr != nil {
		return nil, s.ratedValuesErr
	}
	var values []int
	for _, a := range s.appts {
		if a.DoctorID == doctorID && a.RatingValue != nil {
			values = append(values, *a.RatingValue)
		}
	}
	return values, nil
}

type fakeDoctorStore struct {
	doctors         map[string]*models.Doctor
	updateRatingErr error
}

func newFakeDoctorStore() *fakeDoctorStore {
	return &fakeDoctorStore{doctors: map[string]*models.Doctor{}}
}

func (s *fakeDoctorStore) Get(ctx context.Context, id string) (*models.Doctor, error) {
	doctor, ok := s.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doctor
	return &copied, nil
}

func (s *fakeDoctorStore) UpdateRating(ctx context.Context, doctorID string, summary models.RatingSummary) error {
	if s.updateRatingErr != nil {
		return s.updateRatingErr
	}
	doctor, ok := s.doctors[doctorID]
	if !ok {
		return ErrNotFound
	}
	doctor.Rating = summary
	return nil
}

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *fakeAppointmentStore, *fakeDoctorStore) {
	t.Helper()
	appts := newFakeAppointmentStore()
	doctors := newFakeDoctorStore()
	doctors.doctors["doc-1"] = &models.Doctor{
		BaseModel:       models.BaseModel{ID: "doc-1"},
		UserID:          "doc-user-1",
		ConsultationFee: 80,
		IsVerified:      true,
		IsActive:        true,
	}
	engine := NewEngine(appts, doctors, zerolog.Nop())
	engine.now = func() time.Time { return testNow }
	return engine, appts, doctors
}

func validInput() CreateInput {
	return CreateInput{
		DoctorID:  "doc-1",
		Date:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Time:      "09:00",
		Specialty: "Cardiology",
		Reason:    "checkup",
	}
}

var (
	patient      = Actor{ID: "patient-1", Role: models.RolePatient}
	otherPatient = Actor{ID: "patient-2", Role: models.RolePatient}
	admin        = Actor{ID: "admin-1", Role: models.RoleAdmin}
	doctorActor  = Actor{ID: "doc-user-1", Role: models.RoleDoctor}
)

func TestCreateAppointment(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, "patient-1", appt.PatientID)
	assert.Equal(t, 80.0, appt.Price)
	assert.Equal(t, DefaultDurationMinutes, appt.DurationMinutes)
	assert.Equal(t, models.PaymentCash, appt.PaymentMethod)
	assert.False(t, appt.Paid)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"past date", func(in *CreateInput) { in.Date = testNow.AddDate(0, 0, -1) }},
		{"today", func(in *CreateInput) { in.Date = testNow }},
		{"bad time format", func(in *CreateInput) { in.Time = "9am" }},
		{"hour out of range", func(in *CreateInput) { in.Time = "25:00" }},
		{"unknown specialty", func(in *CreateInput) { in.Specialty = "Alchemy" }},
		{"online without link", func(in *CreateInput) { in.IsOnline = true }},
		{"duration too short", func(in *CreateInput) { in.DurationMinutes = 10 }},
		{"duration too long", func(in *CreateInput) { in.DurationMinutes = 200 }},
		{"unknown payment method", func(in *CreateInput) { in.PaymentMethod = "barter" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := newTestEngine(t)
			in := validInput()
			tt.mutate(&in)

			_, err := engine.Create(context.Background(), patient, in)
			assert.Equal(t, KindValidation, ErrKind(err))
		})
	}
}

func TestCreateUnknownDoctor(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	in := validInput()
	in.DoctorID = "doc-missing"

	_, err := engine.Create(context.Background(), patient, in)
	assert.Equal(t, KindNotFound, ErrKind(err))
}

func TestCreateInactiveDoctor(t *testing.T) {
	engine, _, doctors := newTestEngine(t)
	doctors.doctors["doc-1"].IsActive = false

	_, err := engine.Create(context.Background(), patient, validInput())
	assert.Equal(t, KindInvalidState, ErrKind(err))
}

func TestCreateSlotConflict(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	_, err = engine.Create(context.Background(), otherPatient, validInput())
	assert.Equal(t, KindConflict, ErrKind(err))
}

func TestCreateSlotConflictViaConstraint(t *testing.T) {
	// When a concurrent booking slips past the pre-check, the storage
	// constraint still rejects the write and the caller sees the same
	// conflict error.
	engine, appts, _ := newTestEngine(t)

	_, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	appts.skipPreCheck = true
	_, err = engine.Create(context.Background(), otherPatient, validInput())
	assert.Equal(t, KindConflict, ErrKind(err))
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	_, err = engine.Cancel(context.Background(), patient, appt.ID)
	require.NoError(t, err)

	rebooked, err := engine.Create(context.Background(), otherPatient, validInput())
	require.NoError(t, err)
	assert.Equal(t, "patient-2", rebooked.PatientID)
}

func TestPriceSnapshot(t *testing.T) {
	engine, appts, doctors := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)
	require.Equal(t, 80.0, appt.Price)

	// A later fee change must not alter the existing appointment's price.
	doctors.doctors["doc-1"].ConsultationFee = 120

	stored, err := appts.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, stored.Price)
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     models.AppointmentStatus
		to       models.AppointmentStatus
		actor    Actor
		wantKind Kind
	}{
		{"patient cancels scheduled", models.StatusScheduled, models.StatusCancelled, patient, ""},
		{"patient cancels confirmed", models.StatusConfirmed, models.StatusCancelled, patient, ""},
		{"admin cancels", models.StatusScheduled, models.StatusCancelled, admin, ""},
		{"doctor confirms", models.StatusScheduled, models.StatusConfirmed, doctorActor, ""},
		{"doctor completes", models.StatusConfirmed, models.StatusCompleted, doctorActor, ""},
		{"doctor marks missed", models.StatusConfirmed, models.StatusMissed, doctorActor, ""},
		{"admin completes", models.StatusScheduled, models.StatusCompleted, admin, ""},
		{"other patient cannot cancel", models.StatusScheduled, models.StatusCancelled, otherPatient, KindForbidden},
		{"patient cannot confirm", models.StatusScheduled, models.StatusConfirmed, patient, KindForbidden},
		{"patient cannot complete", models.StatusConfirmed, models.StatusCompleted, patient, KindForbidden},
		{"out of completed", models.StatusCompleted, models.StatusCancelled, admin, KindInvalidState},
		{"out of cancelled", models.StatusCancelled, models.StatusConfirmed, admin, KindInvalidState},
		{"out of missed", models.StatusMissed, models.StatusCompleted, admin, KindInvalidState},
		{"no transition into scheduled", models.StatusConfirmed, models.StatusScheduled, admin, KindInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, appts, _ := newTestEngine(t)
			appt, err := engine.Create(context.Background(), patient, validInput())
			require.NoError(t, err)

			stored := appts.appts[appt.ID]
			stored.Status = tt.from

			got, err := engine.Transition(context.Background(), tt.actor, appt.ID, tt.to, "")
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got.Status)
			} else {
				assert.Equal(t, tt.wantKind, ErrKind(err))
			}
		})
	}
}

func TestTerminalStatesRejectEveryTransition(t *testing.T) {
	terminals := []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled, models.StatusMissed}
	targets := []models.AppointmentStatus{
		models.StatusScheduled, models.StatusConfirmed,
		models.StatusCompleted, models.StatusCancelled, models.StatusMissed,
	}
	for _, from := range terminals {
		for _, to := range targets {
			engine, appts, _ := newTestEngine(t)
			appt, err := engine.Create(context.Background(), patient, validInput())
			require.NoError(t, err)
			appts.appts[appt.ID].Status = from

			_, err = engine.Transition(context.Background(), admin, appt.ID, to, "")
			assert.Equalf(t, KindInvalidState, ErrKind(err), "from=%s to=%s", from, to)
		}
	}
}

func TestRateCompletedAppointment(t *testing.T) {
	engine, appts, doctors := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)
	appts.appts[appt.ID].Status = models.StatusCompleted

	rated, err := engine.Rate(context.Background(), patient, appt.ID, 5, "great doctor")
	require.NoError(t, err)
	require.NotNil(t, rated.RatingValue)
	assert.Equal(t, 5, *rated.RatingValue)
	assert.Equal(t, "great doctor", rated.RatingComment)

	assert.Equal(t, 5.0, doctors.doctors["doc-1"].Rating.Average)
	assert.Equal(t, 1, doctors.doctors["doc-1"].Rating.Count)
}

func TestRateGating(t *testing.T) {
	setup := func(t *testing.T) (*Engine, *fakeAppointmentStore, string) {
		engine, appts, _ := newTestEngine(t)
		appt, err := engine.Create(context.Background(), patient, validInput())
		require.NoError(t, err)
		return engine, appts, appt.ID
	}

	t.Run("scheduled appointment", func(t *testing.T) {
		engine, _, id := setup(t)
		_, err := engine.Rate(context.Background(), patient, id, 4, "")
		assert.Equal(t, KindInvalidState, ErrKind(err))
	})

	t.Run("wrong actor", func(t *testing.T) {
		engine, appts, id := setup(t)
		appts.appts[id].Status = models.StatusCompleted
		_, err := engine.Rate(context.Background(), otherPatient, id, 4, "")
		assert.Equal(t, KindForbidden, ErrKind(err))
	})

	t.Run("already rated", func(t *testing.T) {
		engine, appts, id := setup(t)
		appts.appts[id].Status = models.StatusCompleted
		_, err := engine.Rate(context.Background(), patient, id, 5, "")
		require.NoError(t, err)
		_, err = engine.Rate(context.Background(), patient, id, 3, "")
		assert.Equal(t, KindAlreadyRated, ErrKind(err))
	})

	t.Run("value out of range", func(t *testing.T) {
		engine, _, id := setup(t)
		for _, v := range []int{0, 6, -1} {
			_, err := engine.Rate(context.Background(), patient, id, v, "")
			assert.Equal(t, KindValidation, ErrKind(err))
		}
	})
}

func TestRatingAggregateAcrossAppointments(t *testing.T) {
	engine, appts, doctors := newTestEngine(t)

	rate := func(p Actor, timeOfDay string, value int) {
		in := validInput()
		in.Time = timeOfDay
		appt, err := engine.Create(context.Background(), p, in)
		require.NoError(t, err)
		appts.appts[appt.ID].Status = models.StatusCompleted
		_, err = engine.Rate(context.Background(), p, appt.ID, value, "")
		require.NoError(t, err)
	}

	rate(patient, "09:00", 5)
	rate(otherPatient, "10:00", 4)
	rate(patient, "11:00", 4)

	// mean(5,4,4) = 4.333... rounds to 4.3
	assert.Equal(t, 4.3, doctors.doctors["doc-1"].Rating.Average)
	assert.Equal(t, 3, doctors.doctors["doc-1"].Rating.Count)
}

func TestRateSurvivesRecomputeFailure(t *testing.T) {
	engine, appts, doctors := newTestEngine(t)
	doctors.updateRatingErr = errors.New("doctor row write failed")

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)
	appts.appts[appt.ID].Status = models.StatusCompleted

	// The rating write succeeded, so the call reports success even though
	// the aggregate is stale.
	rated, err := engine.Rate(context.Background(), patient, appt.ID, 5, "")
	require.NoError(t, err)
	require.NotNil(t, rated.RatingValue)

	assert.Equal(t, 0.0, doctors.doctors["doc-1"].Rating.Average)
	assert.Equal(t, 0, doctors.doctors["doc-1"].Rating.Count)
}

func TestReschedule(t *testing.T) {
	engine, appts, _ := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)
	appts.appts[appt.ID].Status = models.StatusConfirmed

	newDate := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	moved, err := engine.Reschedule(context.Background(), patient, appt.ID, newDate, "14:30")
	require.NoError(t, err)
	assert.True(t, moved.Date.Equal(newDate))
	assert.Equal(t, "14:30", moved.Time)
	// Moving the slot puts the appointment back to scheduled for re-confirmation
	assert.Equal(t, models.StatusScheduled, moved.Status)
}

func TestRescheduleConflicts(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	first, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Time = "10:00"
	second, err := engine.Create(context.Background(), otherPatient, in)
	require.NoError(t, err)

	// Moving the second appointment onto the first one's slot must fail.
	_, err = engine.Reschedule(context.Background(), otherPatient, second.ID, second.Date, "09:00")
	assert.Equal(t, KindConflict, ErrKind(err))

	// Moving an appointment onto its own slot is a no-op, not a conflict.
	_, err = engine.Reschedule(context.Background(), patient, first.ID, first.Date, first.Time)
	assert.NoError(t, err)
}

func TestRescheduleAuthorization(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	_, err = engine.Reschedule(context.Background(), otherPatient, appt.ID, appt.Date, "15:00")
	assert.Equal(t, KindForbidden, ErrKind(err))

	_, err = engine.Reschedule(context.Background(), admin, appt.ID, appt.Date, "15:00")
	assert.NoError(t, err)
}

func TestMarkPaid(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	_, err = engine.MarkPaid(context.Background(), patient, appt.ID, true)
	assert.Equal(t, KindForbidden, ErrKind(err))

	paid, err := engine.MarkPaid(context.Background(), doctorActor, appt.ID, true)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
}

func TestMarkReminderSent(t *testing.T) {
	engine, appts, _ := newTestEngine(t)

	appt, err := engine.Create(context.Background(), patient, validInput())
	require.NoError(t, err)

	require.NoError(t, engine.MarkReminderSent(context.Background(), appt.ID))

	stored := appts.appts[appt.ID]
	assert.True(t, stored.ReminderSent)
	require.NotNil(t, stored.ReminderSentAt)
	assert.Equal(t, testNow, *stored.ReminderSentAt)
}
