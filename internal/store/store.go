// Package store provides the GORM-backed implementations of the booking
// engine's store interfaces.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"medbooking-server/internal/booking"
	"medbooking-server/internal/models"
)

// excludedStatuses do not occupy a slot for conflict purposes.
var excludedStatuses = []models.AppointmentStatus{models.StatusCancelled, models.StatusMissed}

// AppointmentStore persists appointments through GORM.
type AppointmentStore struct {
	DB *gorm.DB
}

// NewAppointmentStore creates a new AppointmentStore.
func NewAppointmentStore(db *gorm.DB) *AppointmentStore {
	return &AppointmentStore{DB: db}
}

// Get loads an appointment by id.
func (s *AppointmentStore) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

// SlotTaken reports whether a live appointment already occupies the slot.
func (s *AppointmentStore) SlotTaken(ctx context.Context, doctorID string, date time.Time, timeOfDay string, excludeID string) (bool, error) {
	query := s.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time = ?", doctorID, date.Format("2006-01-02"), timeOfDay).
		Where("status NOT IN ?", excludedStatuses)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new appointment, translating a unique index violation on
// the (doctor, date, time) slot into booking.ErrDuplicateSlot.
func (s *AppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	if err := s.DB.WithContext(ctx).Create(appt).Error; err != nil {
		if isDuplicateKey(err) {
			return booking.ErrDuplicateSlot
		}
		return err
	}
	return nil
}

// Save writes all fields of an existing appointment.
func (s *AppointmentStore) Save(ctx context.Context, appt *models.Appointment) error {
	if err := s.DB.WithContext(ctx).Save(appt).Error; err != nil {
		if isDuplicateKey(err) {
			return booking.ErrDuplicateSlot
		}
		return err
	}
	return nil
}

// RatedValues returns the rating values of the doctor's rated appointments.
func (s *AppointmentStore) RatedValues(ctx context.Context, doctorID string) ([]int, error) {
	var values []int
	err := s.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND rating_value IS NOT NULL", doctorID).
		Pluck("rating_value", &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// DoctorStore reads and updates doctor directory entries through GORM.
type DoctorStore struct {
	DB *gorm.DB
}

// NewDoctorStore creates a new DoctorStore.
func NewDoctorStore(db *gorm.DB) *DoctorStore {
	return &DoctorStore{DB: db}
}

// Get loads a doctor by id.
func (s *DoctorStore) Get(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.DB.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// UpdateRating writes the recomputed rating aggregate onto the doctor row.
func (s *DoctorStore) UpdateRating(ctx context.Context, doctorID string, summary models.RatingSummary) error {
	return s.DB.WithContext(ctx).Model(&models.Doctor{}).
		Where("id = ?", doctorID).
		Updates(map[string]interface{}{
			"rating_average": summary.Average,
			"rating_count":   summary.Count,
		}).Error
}

// isDuplicateKey recognizes a MySQL duplicate entry error (1062).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
