package models

// ClinicKind represents the kind of medical facility
type ClinicKind string

const (
	ClinicHospital   ClinicKind = "hospital"
	ClinicPolyclinic ClinicKind = "polyclinic"
	ClinicPractice   ClinicKind = "practice"
	ClinicPharmacy   ClinicKind = "pharmacy"
	ClinicLaboratory ClinicKind = "laboratory"
)

// Clinic represents a medical facility in the directory
type Clinic struct {
	BaseModel
	Name             string        `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description      string        `gorm:"type:text" json:"description,omitempty"`
	Address          string        `gorm:"size:300;not null" json:"address"`
	City             string        `gorm:"size:100;not null;index" json:"city"`
	Phone            string        `gorm:"size:20;not null" json:"phone"`
	Email            string        `gorm:"size:255" json:"email,omitempty"`
	Website          string        `gorm:"size:255" json:"website,omitempty"`
	Kind             ClinicKind    `gorm:"size:20;not null;index" json:"kind"`
	Specialties      StringList    `gorm:"type:json" json:"specialties"`
	Services         StringList    `gorm:"type:json" json:"services"`
	WorkingHours     WorkingHours  `gorm:"type:json" json:"workingHours"`
	Latitude         float64       `json:"latitude"`
	Longitude        float64       `json:"longitude"`
	HasParking       bool          `gorm:"default:false" json:"hasParking"`
	WheelchairAccess bool          `gorm:"default:false" json:"wheelchairAccess"`
	Rating           RatingSummary `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`
	IsVerified       bool          `gorm:"default:false" json:"isVerified"`
	IsActive         bool          `gorm:"default:true" json:"isActive"`
}
