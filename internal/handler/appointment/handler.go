package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SameepSkillup/clinic-api/internal/handler"
	"github.com/SameepSkillup/clinic-api/internal/middleware"
	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/service/appointment"
	"github.com/SameepSkillup/clinic-api/internal/service/doctor"
	"github.com/SameepSkillup/clinic-api/internal/service/patient"
)

type Handler struct {
	service  *appointment.Service
	doctors  *doctor.Service
	patients *patient.Service
	gate     *middleware.AuthMiddleware
}

func NewHandler(service *appointment.Service, doctors *doctor.Service, patients *patient.Service, gate *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, doctors: doctors, patients: patients, gate: gate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	asPatient := rg.Group("/appointments", h.gate.RequireRole(model.RolePatient))
	asPatient.POST("", h.Book)
	asPatient.PUT("/:id", h.Update)
	asPatient.DELETE("/:id", h.Cancel)

	asDoctor := rg.Group("/appointments/schedule", h.gate.RequireRole(model.RoleDoctor))
	asDoctor.GET("", h.DoctorDay)
}

// Book admits a booking for the authenticated patient.
func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, ok := h.currentPatient(c)
	if !ok {
		return
	}

	apt, err := h.service.Book(c.Request.Context(), p.ID, &req)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, apt)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, ok := h.currentPatient(c)
	if !ok {
		return
	}

	apt, err := h.service.Update(c.Request.Context(), p.ID, id, &req)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	handler.OK(c, http.StatusOK, apt)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	p, ok := h.currentPatient(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), p.ID, id); err != nil {
		h.bookingError(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"message": "appointment cancelled"})
}

// DoctorDay returns the authenticated doctor's appointments for a day,
// optionally narrowed by patient name.
func (h *Handler) DoctorDay(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid or missing date, expected YYYY-MM-DD")
		return
	}

	d, err := h.doctors.GetByEmail(c.Request.Context(), c.GetString(middleware.ContextSubject))
	if err != nil {
		handler.Fail(c, http.StatusUnauthorized, "unknown doctor account")
		return
	}

	appointments, err := h.service.DoctorDay(c.Request.Context(), d.ID, day, c.Query("patient_name"))
	if err != nil {
		handler.Fail(c, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	handler.OK(c, http.StatusOK, appointments)
}

func (h *Handler) currentPatient(c *gin.Context) (*model.Patient, bool) {
	p, err := h.patients.GetByEmail(c.Request.Context(), c.GetString(middleware.ContextSubject))
	if err != nil {
		handler.Fail(c, http.StatusUnauthorized, "unknown patient account")
		return nil, false
	}
	return p, true
}

func (h *Handler) bookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appointment.ErrDoctorNotFound), errors.Is(err, appointment.ErrNotFound):
		handler.Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appointment.ErrPastTime),
		errors.Is(err, appointment.ErrSlotUnavailable),
		errors.Is(err, appointment.ErrNotScheduled):
		handler.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appointment.ErrSlotTaken):
		handler.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, appointment.ErrNotOwner):
		handler.Fail(c, http.StatusForbidden, err.Error())
	default:
		handler.Fail(c, http.StatusInternalServerError, "booking failed")
	}
}
