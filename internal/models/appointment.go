package models

import (
	"time"

	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusMissed    AppointmentStatus = "missed"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusMissed
}

// occupiesSlot reports whether an appointment in this status counts against
// the doctor's (date, time) slot.
func (s AppointmentStatus) occupiesSlot() bool {
	return s != StatusCancelled && s != StatusMissed
}

// PaymentMethod represents how an appointment is paid
type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "cash"
	PaymentCard      PaymentMethod = "card"
	PaymentInsurance PaymentMethod = "insurance"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentInsurance
}

// Appointment represents a booked consultation slot.
//
// The unique index over (doctor_id, date, time, slot_active) is the
// authoritative guard against double booking. SlotActive is kept true while
// the status occupies the slot and reset to NULL for cancelled/missed rows;
// MySQL unique indexes ignore NULL entries, so released slots can be rebooked
// while live ones collide.
type Appointment struct {
	BaseModel
	PatientID string `gorm:"size:36;not null;index:idx_appointments_patient_date" json:"patientId"`
	DoctorID  string `gorm:"size:36;not null;index:idx_appointments_doctor_date;uniqueIndex:uq_doctor_slot" json:"doctorId"`

	Date time.Time `gorm:"type:date;not null;index:idx_appointments_patient_date;index:idx_appointments_doctor_date;uniqueIndex:uq_doctor_slot" json:"date"`
	Time string    `gorm:"size:5;not null;uniqueIndex:uq_doctor_slot" json:"time"`

	Specialty string            `gorm:"size:50;not null" json:"specialty"`
	Reason    string            `gorm:"size:500" json:"reason,omitempty"`
	Notes     string            `gorm:"size:1000" json:"notes,omitempty"`
	Status    AppointmentStatus `gorm:"size:20;not null;default:'scheduled';index" json:"status"`

	// Price is snapshotted from the doctor's consultation fee at booking
	// time and never re-read afterwards.
	Price           float64       `gorm:"not null" json:"price"`
	DurationMinutes int           `gorm:"not null;default:30" json:"durationMinutes"`
	IsOnline        bool          `gorm:"default:false" json:"isOnline"`
	OnlineLink      string        `gorm:"size:500" json:"onlineLink,omitempty"`
	PaymentMethod   PaymentMethod `gorm:"size:20;not null;default:'cash'" json:"paymentMethod"`
	Paid            bool          `gorm:"default:false" json:"paid"`

	// SlotActive participates in uq_doctor_slot; see type comment.
	SlotActive *bool `gorm:"uniqueIndex:uq_doctor_slot" json:"-"`

	// Reminder sub-record, written by the notification job.
	ReminderSent   bool       `gorm:"default:false" json:"reminderSent"`
	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty"`

	// Optional post-completion rating, attached at most once by the patient.
	RatingValue   *int       `json:"ratingValue,omitempty"`
	RatingComment string     `gorm:"size:500" json:"ratingComment,omitempty"`
	RatedAt       *time.Time `json:"ratedAt,omitempty"`

	// Relations
	Patient User   `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}

// HasRating reports whether a rating has already been attached.
func (a *Appointment) HasRating() bool {
	return a.RatingValue != nil
}

// SyncSlotActive derives the SlotActive marker from the current status.
func (a *Appointment) SyncSlotActive() {
	if a.Status.occupiesSlot() {
		active := true
		a.SlotActive = &active
	} else {
		a.SlotActive = nil
	}
}

// BeforeSave keeps the slot marker consistent with the status on every write.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.SyncSlotActive()
	return nil
}
