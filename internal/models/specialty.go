package models

// Specialties lists the medical specialties a doctor or appointment may carry.
var Specialties = []string{
	"Cardiology",
	"Dermatology",
	"Orthopedics",
	"Dentistry",
	"Gynecology",
	"Neurology",
	"Ophthalmology",
	"Pediatrics",
	"Psychiatry",
	"Radiology",
	"Urology",
	"Endocrinology",
	"Gastroenterology",
	"Hematology",
	"Oncology",
	"Rheumatology",
	"Anesthesiology",
	"General Medicine",
}

var specialtySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Specialties))
	for _, s := range Specialties {
		set[s] = struct{}{}
	}
	return set
}()

// IsValidSpecialty reports whether s is a known specialty.
func IsValidSpecialty(s string) bool {
	_, ok := specialtySet[s]
	return ok
}
