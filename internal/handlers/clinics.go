package handlers

import (
	"medbooking-server/internal/models"
	"medbooking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ClinicHandler handles clinic directory requests.
type ClinicHandler struct {
	DB *gorm.DB
}

// NewClinicHandler creates a new ClinicHandler.
func NewClinicHandler(db *gorm.DB) *ClinicHandler {
	return &ClinicHandler{DB: db}
}

// GetClinics lists active clinics with optional city/kind/specialty filters.
func (h *ClinicHandler) GetClinics(c *gin.Context) {
	params := utils.GetPageParams(c)

	query := h.DB.Model(&models.Clinic{}).Where("is_active = ?", true)

	if city := c.Query("city"); city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if specialty := c.Query("specialty"); specialty != "" {
		query = query.Where("JSON_CONTAINS(specialties, JSON_QUOTE(?))", specialty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count clinics: "+err.Error())
		return
	}

	var clinics []models.Clinic
	err := query.Order("rating_average desc").
		Offset(params.Offset()).Limit(params.Limit).
		Find(&clinics).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch clinics: "+err.Error())
		return
	}

	utils.Success(c, "Clinics fetched successfully", utils.Paginated{
		Items:      clinics,
		Pagination: utils.NewPagination(params, total),
	})
}

// GetClinicByID fetches a single clinic.
func (h *ClinicHandler) GetClinicByID(c *gin.Context) {
	var clinic models.Clinic
	if err := h.DB.First(&clinic, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Clinic not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Clinic fetched successfully", clinic)
}

// GetClinicDoctors lists active, verified doctors working at the clinic.
func (h *ClinicHandler) GetClinicDoctors(c *gin.Context) {
	var clinic models.Clinic
	if err := h.DB.First(&clinic, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Clinic not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var doctors []models.Doctor
	err := h.DB.Preload("User").
		Where("hospital = ? AND is_active = ? AND is_verified = ?", clinic.Name, true, true).
		Order("rating_average desc").
		Find(&doctors).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch clinic doctors: "+err.Error())
		return
	}

	utils.Success(c, "Clinic doctors fetched successfully", doctors)
}

// CreateClinicRequest represents the request body for creating a clinic.
type CreateClinicRequest struct {
	Name             string              `json:"name" binding:"required,max=200"`
	Description      string              `json:"description"`
	Address          string              `json:"address" binding:"required,max=300"`
	City             string              `json:"city" binding:"required,max=100"`
	Phone            string              `json:"phone" binding:"required,max=20"`
	Email            string              `json:"email" binding:"omitempty,email"`
	Website          string              `json:"website" binding:"omitempty,url"`
	Kind             models.ClinicKind   `json:"kind" binding:"required,oneof=hospital polyclinic practice pharmacy laboratory"`
	Specialties      []string            `json:"specialties"`
	Services         []string            `json:"services"`
	WorkingHours     models.WorkingHours `json:"workingHours"`
	Latitude         float64             `json:"latitude" binding:"min=-90,max=90"`
	Longitude        float64             `json:"longitude" binding:"min=-180,max=180"`
	HasParking       bool                `json:"hasParking"`
	WheelchairAccess bool                `json:"wheelchairAccess"`
}

// CreateClinic registers a new clinic. Admin only.
func (h *ClinicHandler) CreateClinic(c *gin.Context) {
	var req CreateClinicRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	clinic := models.Clinic{
		Name:             req.Name,
		Description:      req.Description,
		Address:          req.Address,
		City:             req.City,
		Phone:            req.Phone,
		Email:            req.Email,
		Website:          req.Website,
		Kind:             req.Kind,
		Specialties:      req.Specialties,
		Services:         req.Services,
		WorkingHours:     req.WorkingHours,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		HasParking:       req.HasParking,
		WheelchairAccess: req.WheelchairAccess,
		IsVerified:       true,
		IsActive:         true,
	}

	if err := h.DB.Create(&clinic).Error; err != nil {
		utils.InternalServerError(c, "Failed to create clinic: "+err.Error())
		return
	}

	utils.Created(c, "Clinic created successfully", clinic)
}

// UpdateClinicRequest carries the updatable clinic fields.
type UpdateClinicRequest struct {
	Description      *string              `json:"description"`
	Address          *string              `json:"address"`
	City             *string              `json:"city"`
	Phone            *string              `json:"phone"`
	Email            *string              `json:"email"`
	Website          *string              `json:"website"`
	Specialties      []string             `json:"specialties"`
	Services         []string             `json:"services"`
	WorkingHours     *models.WorkingHours `json:"workingHours"`
	Latitude         *float64             `json:"latitude"`
	Longitude        *float64             `json:"longitude"`
	HasParking       *bool                `json:"hasParking"`
	WheelchairAccess *bool                `json:"wheelchairAccess"`
	IsVerified       *bool                `json:"isVerified"`
	IsActive         *bool                `json:"isActive"`
}

// UpdateClinic updates a clinic. Admin only.
func (h *ClinicHandler) UpdateClinic(c *gin.Context) {
	var req UpdateClinicRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var clinic models.Clinic
	if err := h.DB.First(&clinic, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Clinic not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Description != nil {
		clinic.Description = *req.Description
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.City != nil {
		clinic.City = *req.City
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Email != nil {
		clinic.Email = *req.Email
	}
	if req.Website != nil {
		clinic.Website = *req.Website
	}
	if req.Specialties != nil {
		clinic.Specialties = req.Specialties
	}
	if req.Services != nil {
		clinic.Services = req.Services
	}
	if req.WorkingHours != nil {
		clinic.WorkingHours = *req.WorkingHours
	}
	if req.Latitude != nil {
		clinic.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		clinic.Longitude = *req.Longitude
	}
	if req.HasParking != nil {
		clinic.HasParking = *req.HasParking
	}
	if req.WheelchairAccess != nil {
		clinic.WheelchairAccess = *req.WheelchairAccess
	}
	if req.IsVerified != nil {
		clinic.IsVerified = *req.IsVerified
	}
	if req.IsActive != nil {
		clinic.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&clinic).Error; err != nil {
		utils.InternalServerError(c, "Failed to update clinic: "+err.Error())
		return
	}

	utils.Success(c, "Clinic updated successfully", clinic)
}

// DeleteClinic deactivates a clinic instead of removing the row.
func (h *ClinicHandler) DeleteClinic(c *gin.Context) {
	var clinic models.Clinic
	if err := h.DB.First(&clinic, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Clinic not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	clinic.IsActive = false
	if err := h.DB.Save(&clinic).Error; err != nil {
		utils.InternalServerError(c, "Failed to deactivate clinic: "+err.Error())
		return
	}

	utils.Success(c, "Clinic deactivated successfully", nil)
}
