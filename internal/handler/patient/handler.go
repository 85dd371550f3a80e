package patient

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SameepSkillup/clinic-api/internal/handler"
	"github.com/SameepSkillup/clinic-api/internal/middleware"
	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/service/appointment"
	"github.com/SameepSkillup/clinic-api/internal/service/patient"
)

type Handler struct {
	service      *patient.Service
	appointments *appointment.Service
	gate         *middleware.AuthMiddleware
}

func NewHandler(service *patient.Service, appointments *appointment.Service, gate *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, appointments: appointments, gate: gate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/patients", h.Register)

	me := rg.Group("/patients/me", h.gate.RequireRole(model.RolePatient))
	me.GET("", h.Profile)
	me.GET("/appointments", h.Appointments)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, patient.ErrAlreadyExists) {
			handler.Fail(c, http.StatusConflict, err.Error())
			return
		}
		handler.Fail(c, http.StatusInternalServerError, "failed to register patient")
		return
	}
	handler.OK(c, http.StatusCreated, p)
}

func (h *Handler) Profile(c *gin.Context) {
	p, ok := h.current(c)
	if !ok {
		return
	}
	handler.OK(c, http.StatusOK, p)
}

// Appointments lists the patient's appointments, filtered by the optional
// condition (past/future) and doctor name query parameters.
func (h *Handler) Appointments(c *gin.Context) {
	p, ok := h.current(c)
	if !ok {
		return
	}

	filter := model.AppointmentFilter{
		Condition:  c.Query("condition"),
		DoctorName: c.Query("doctor_name"),
	}

	appointments, err := h.appointments.ForPatient(c.Request.Context(), p.ID, filter)
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	handler.OK(c, http.StatusOK, appointments)
}

func (h *Handler) current(c *gin.Context) (*model.Patient, bool) {
	p, err := h.service.GetByEmail(c.Request.Context(), c.GetString(middleware.ContextSubject))
	if err != nil {
		handler.Fail(c, http.StatusUnauthorized, "unknown patient account")
		return nil, false
	}
	return p, true
}
