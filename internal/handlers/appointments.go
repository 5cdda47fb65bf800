package handlers

import (
	"medbooking-server/internal/booking"
	"medbooking-server/internal/middleware"
	"medbooking-server/internal/models"
	"medbooking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB     *gorm.DB
	Engine *booking.Engine
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, engine *booking.Engine) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Engine: engine}
}

func actorFromContext(c *gin.Context) (booking.Actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return booking.Actor{}, false
	}
	role, _ := middleware.GetUserRoleFromContext(c)
	return booking.Actor{ID: userID, Role: role}, true
}

// CreateAppointmentRequest represents the request body for booking a slot.
type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required,uuid"`
	Date            string `json:"date" binding:"required"` // "2006-01-02"
	Time            string `json:"time" binding:"required"`
	Specialty       string `json:"specialty" binding:"required"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
	DurationMinutes int    `json:"durationMinutes"`
	IsOnline        bool   `json:"isOnline"`
	OnlineLink      string `json:"onlineLink"`
	PaymentMethod   string `json:"paymentMethod" binding:"omitempty,oneof=cash card insurance"`
}

// CreateAppointment books a new appointment for the authenticated patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	date, err := utils.ParseDateOnly(req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	appt, err := h.Engine.Create(c.Request.Context(), actor, booking.CreateInput{
		DoctorID:        req.DoctorID,
		Date:            date,
		Time:            req.Time,
		Specialty:       req.Specialty,
		Reason:          req.Reason,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes,
		IsOnline:        req.IsOnline,
		OnlineLink:      req.OnlineLink,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.Created(c, "Appointment booked successfully", appt)
}

// GetAppointments lists appointments for the logged-in user. Patients see
// their own, doctors see their schedule, admins see everything and may
// filter by patientId/doctorId.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPageParams(c)
	query := h.DB.Model(&models.Appointment{})

	switch actor.Role {
	case models.RolePatient:
		query = query.Where("patient_id = ?", actor.ID)
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := h.DB.Where("user_id = ?", actor.ID).First(&doctor).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "No doctor profile for this account")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		query = query.Where("doctor_id = ?", doctor.ID)
	case models.RoleAdmin:
		if patientID := c.Query("patientId"); patientID != "" {
			query = query.Where("patient_id = ?", patientID)
		}
		if doctorID := c.Query("doctorId"); doctorID != "" {
			query = query.Where("doctor_id = ?", doctorID)
		}
	default:
		utils.Forbidden(c, "User role not permitted to list appointments")
		return
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count appointments: "+err.Error())
		return
	}

	var appointments []models.Appointment
	err := query.Order("date asc, time asc").
		Offset(params.Offset()).Limit(params.Limit).
		Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", utils.Paginated{
		Items:      appointments,
		Pagination: utils.NewPagination(params, total),
	})
}

// GetAppointmentByID fetches a single appointment. Accessible by the involved
// patient, the involved doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appt models.Appointment
	if err := h.DB.First(&appt, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	canAccess := actor.Role == models.RoleAdmin || actor.ID == appt.PatientID
	if !canAccess && actor.Role == models.RoleDoctor {
		var doctor models.Doctor
		if err := h.DB.Where("user_id = ?", actor.ID).First(&doctor).Error; err == nil {
			canAccess = doctor.ID == appt.DoctorID
		}
	}
	if !canAccess {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appt)
}

// UpdateAppointmentStatusRequest represents a status transition request.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=confirmed completed cancelled missed"`
	Notes  string                   `json:"notes"`
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	appt, err := h.Engine.Transition(c.Request.Context(), actor, c.Param("id"), req.Status, req.Notes)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.Success(c, "Appointment status updated successfully", appt)
}

// CancelAppointment cancels an appointment on behalf of its patient or an admin.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	appt, err := h.Engine.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appt)
}

// RescheduleAppointmentRequest represents the request body for moving a slot.
type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// RescheduleAppointment moves an appointment to a new future slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	date, err := utils.ParseDateOnly(req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	appt, err := h.Engine.Reschedule(c.Request.Context(), actor, c.Param("id"), date, req.Time)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appt)
}

// RateAppointmentRequest represents the request body for rating a completed
// appointment.
type RateAppointmentRequest struct {
	Value   int    `json:"value" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=500"`
}

// RateAppointment attaches a rating and refreshes the doctor's aggregate.
func (h *AppointmentHandler) RateAppointment(c *gin.Context) {
	var req RateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	appt, err := h.Engine.Rate(c.Request.Context(), actor, c.Param("id"), req.Value, req.Comment)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.Success(c, "Appointment rated successfully", appt)
}

// UpdatePaymentRequest toggles the paid flag of an appointment.
type UpdatePaymentRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

// UpdatePayment marks an appointment as paid or unpaid.
func (h *AppointmentHandler) UpdatePayment(c *gin.Context) {
	var req UpdatePaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	appt, err := h.Engine.MarkPaid(c.Request.Context(), actor, c.Param("id"), *req.Paid)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.Success(c, "Payment flag updated successfully", appt)
}
