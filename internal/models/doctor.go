package models

// Doctor represents a doctor profile linked to a user account
type Doctor struct {
	BaseModel
	UserID          string        `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Specialties     StringList    `gorm:"type:json" json:"specialties"`
	Hospital        string        `gorm:"size:200;not null" json:"hospital"`
	Description     string        `gorm:"type:text" json:"description,omitempty"`
	YearsExperience int           `json:"yearsExperience"`
	Education       StringList    `gorm:"type:json" json:"education"`
	Certifications  StringList    `gorm:"type:json" json:"certifications"`
	Languages       StringList    `gorm:"type:json" json:"languages"`
	ConsultationFee float64       `gorm:"not null" json:"consultationFee"`
	Rating          RatingSummary `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`
	WorkingHours    WorkingHours  `gorm:"type:json" json:"workingHours"`
	IsVerified      bool          `gorm:"default:false;index:idx_doctors_active_verified" json:"isVerified"`
	IsActive        bool          `gorm:"default:true;index:idx_doctors_active_verified" json:"isActive"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
}

// Bookable reports whether the doctor can currently accept new appointments.
func (d *Doctor) Bookable() bool {
	return d.IsActive && d.IsVerified
}
