package handlers

import (
	"strconv"

	"medbooking-server/internal/middleware"
	"medbooking-server/internal/models"
	"medbooking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DoctorHandler handles doctor directory requests.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// GetDoctors lists active, verified doctors with optional filters:
// specialty, language, minRating, maxFee, city. Sorted by rating by default.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	params := utils.GetPageParams(c)

	query := h.DB.Model(&models.Doctor{}).
		Where("doctors.is_active = ? AND doctors.is_verified = ?", true, true)

	if specialty := c.Query("specialty"); specialty != "" {
		query = query.Where("JSON_CONTAINS(doctors.specialties, JSON_QUOTE(?))", specialty)
	}
	if language := c.Query("language"); language != "" {
		query = query.Where("JSON_CONTAINS(doctors.languages, JSON_QUOTE(?))", language)
	}
	if minRating := c.Query("minRating"); minRating != "" {
		v, err := strconv.ParseFloat(minRating, 64)
		if err != nil {
			utils.BadRequest(c, "Invalid minRating")
			return
		}
		query = query.Where("doctors.rating_average >= ?", v)
	}
	if maxFee := c.Query("maxFee"); maxFee != "" {
		v, err := strconv.ParseFloat(maxFee, 64)
		if err != nil {
			utils.BadRequest(c, "Invalid maxFee")
			return
		}
		query = query.Where("doctors.consultation_fee <= ?", v)
	}
	if city := c.Query("city"); city != "" {
		query = query.Joins("JOIN users ON users.id = doctors.user_id").
			Where("users.city LIKE ?", "%"+city+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count doctors: "+err.Error())
		return
	}

	sortBy := c.DefaultQuery("sortBy", "rating")
	order := "doctors.rating_average desc"
	switch sortBy {
	case "fee":
		order = "doctors.consultation_fee asc"
	case "experience":
		order = "doctors.years_experience desc"
	}

	var doctors []models.Doctor
	err := query.Preload("User").Order(order).
		Offset(params.Offset()).Limit(params.Limit).
		Find(&doctors).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	utils.Success(c, "Doctors fetched successfully", utils.Paginated{
		Items:      doctors,
		Pagination: utils.NewPagination(params, total),
	})
}

// GetDoctorByID fetches a single doctor profile.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.Preload("User").First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Doctor fetched successfully", doctor)
}

// CreateDoctorRequest creates a doctor user account plus its profile.
type CreateDoctorRequest struct {
	FirstName       string              `json:"firstName" binding:"required"`
	LastName        string              `json:"lastName" binding:"required"`
	Email           string              `json:"email" binding:"required,email"`
	Password        string              `json:"password" binding:"required,min=8"`
	PhoneNumber     string              `json:"phoneNumber"`
	City            string              `json:"city"`
	Specialties     []string            `json:"specialties" binding:"required,min=1"`
	Hospital        string              `json:"hospital" binding:"required"`
	Description     string              `json:"description"`
	YearsExperience int                 `json:"yearsExperience" binding:"min=0,max=60"`
	Education       []string            `json:"education"`
	Certifications  []string            `json:"certifications"`
	Languages       []string            `json:"languages"`
	ConsultationFee float64             `json:"consultationFee" binding:"min=0"`
	WorkingHours    models.WorkingHours `json:"workingHours"`
}

// CreateDoctor registers a new doctor. Admin only; admin-created doctors are
// verified immediately.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	for _, s := range req.Specialties {
		if !models.IsValidSpecialty(s) {
			utils.BadRequest(c, "Unknown specialty: "+s)
			return
		}
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		City:        req.City,
		Role:        models.RoleDoctor,
		IsVerified:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	doctor := models.Doctor{
		Specialties:     req.Specialties,
		Hospital:        req.Hospital,
		Description:     req.Description,
		YearsExperience: req.YearsExperience,
		Education:       req.Education,
		Certifications:  req.Certifications,
		Languages:       req.Languages,
		ConsultationFee: req.ConsultationFee,
		WorkingHours:    req.WorkingHours,
		IsVerified:      true,
		IsActive:        true,
	}
	if len(doctor.Languages) == 0 {
		doctor.Languages = models.StringList{"English"}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		doctor.UserID = user.ID
		return tx.Create(&doctor).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	doctor.User = user
	utils.Created(c, "Doctor created successfully", doctor)
}

// UpdateDoctorRequest carries the updatable profile fields.
type UpdateDoctorRequest struct {
	Specialties     []string             `json:"specialties"`
	Hospital        *string              `json:"hospital"`
	Description     *string              `json:"description"`
	YearsExperience *int                 `json:"yearsExperience"`
	Education       []string             `json:"education"`
	Certifications  []string             `json:"certifications"`
	Languages       []string             `json:"languages"`
	ConsultationFee *float64             `json:"consultationFee"`
	WorkingHours    *models.WorkingHours `json:"workingHours"`
	IsVerified      *bool                `json:"isVerified"`
	IsActive        *bool                `json:"isActive"`
}

// UpdateDoctor updates a doctor profile. Allowed for admins and for the
// doctor's own account; verification and activation flags are admin only.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	isAdmin := role == models.RoleAdmin
	if !isAdmin && doctor.UserID != userID {
		utils.Forbidden(c, "You are not allowed to update this doctor profile")
		return
	}

	if req.Specialties != nil {
		for _, s := range req.Specialties {
			if !models.IsValidSpecialty(s) {
				utils.BadRequest(c, "Unknown specialty: "+s)
				return
			}
		}
		doctor.Specialties = req.Specialties
	}
	if req.Hospital != nil {
		doctor.Hospital = *req.Hospital
	}
	if req.Description != nil {
		doctor.Description = *req.Description
	}
	if req.YearsExperience != nil {
		if *req.YearsExperience < 0 || *req.YearsExperience > 60 {
			utils.BadRequest(c, "Years of experience must be between 0 and 60")
			return
		}
		doctor.YearsExperience = *req.YearsExperience
	}
	if req.Education != nil {
		doctor.Education = req.Education
	}
	if req.Certifications != nil {
		doctor.Certifications = req.Certifications
	}
	if req.Languages != nil {
		doctor.Languages = req.Languages
	}
	if req.ConsultationFee != nil {
		if *req.ConsultationFee < 0 {
			utils.BadRequest(c, "Consultation fee cannot be negative")
			return
		}
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.WorkingHours != nil {
		doctor.WorkingHours = *req.WorkingHours
	}
	if isAdmin {
		if req.IsVerified != nil {
			doctor.IsVerified = *req.IsVerified
		}
		if req.IsActive != nil {
			doctor.IsActive = *req.IsActive
		}
	}

	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor updated successfully", doctor)
}

// DeleteDoctor deactivates a doctor instead of removing the row.
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	doctor.IsActive = false
	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to deactivate doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor deactivated successfully", nil)
}
