package doctor

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
	authsvc "github.com/SameepSkillup/clinic-api/internal/service/auth"
	"github.com/SameepSkillup/clinic-api/internal/service/doctor"
)

type Handler struct {
	service      *doctor.Service
	appointments *appointment.Service
	gate         *middleware.AuthMiddleware
}

func NewHandler(service *doctor.Service, appointments *appointment.Service, gate *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, appointments: appointments, gate: gate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/doctors")
	group.GET("", h.List)
	group.GET("/filter", h.Filter)

	// Availability feeds the patient booking flow.
	group.GET("/:id/availability", h.gate.RequireRole(model.RolePatient), h.Availability)

	asAdmin := group.Group("", h.gate.RequireRole(model.RoleAdmin))
	asAdmin.POST("", h.Create)
	asAdmin.PUT("/:id", h.Update)
	asAdmin.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Fail(c, http.StatusInternalServerError, "failed to list doctors")
		return
	}
	handler.OK(c, http.StatusOK, doctors)
}

// Filter narrows the doctor listing by whichever of name, specialty and
// period (am/pm) are present.
func (h *Handler) Filter(c *gin.Context) {
	filter := model.DoctorFilter{
		Name:      c.Query("name"),
		Specialty: c.Query("specialty"),
		Period:    c.Query("period"),
	}

	doctors, err := h.service.Filter(c.Request.Context(), filter)
	if err != nil {
		handler.Fail(c, http.StatusInternalServerError, "failed to filter doctors")
		return
	}
	handler.OK(c, http.StatusOK, doctors)
}

func (h *Handler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid doctor ID")
		return
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid or missing date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.appointments.Availability(c.Request.Context(), id, day)
	if err != nil {
		if errors.Is(err, appointment.ErrDoctorNotFound) {
			handler.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		handler.Fail(c, http.StatusInternalServerError, "failed to compute availability")
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"date": c.Query("date"), "slots": slots})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := authsvc.HashPassword(req.Password)
	if err != nil {
		handler.Fail(c, http.StatusInternalServerError, "failed to create doctor")
		return
	}

	d := &model.Doctor{
		Name:           req.Name,
		Specialty:      req.Specialty,
		Email:          req.Email,
		Phone:          req.Phone,
		PasswordHash:   hash,
		AvailableTimes: req.AvailableTimes,
	}
	if err := h.service.Create(c.Request.Context(), d); err != nil {
		if errors.Is(err, doctor.ErrAlreadyExists) {
			handler.Fail(c, http.StatusConflict, err.Error())
			return
		}
		handler.Fail(c, http.StatusInternalServerError, "failed to create doctor")
		return
	}
	handler.OK(c, http.StatusCreated, d)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid doctor ID")
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.doctorError(c, err, "failed to update doctor")
		return
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Specialty != nil {
		d.Specialty = *req.Specialty
	}
	if req.Phone != nil {
		d.Phone = *req.Phone
	}
	if req.AvailableTimes != nil {
		d.AvailableTimes = req.AvailableTimes
	}

	if err := h.service.Update(c.Request.Context(), d); err != nil {
		h.doctorError(c, err, "failed to update doctor")
		return
	}
	handler.OK(c, http.StatusOK, d)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid doctor ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.doctorError(c, err, "failed to delete doctor")
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"message": "doctor deleted"})
}

func (h *Handler) doctorError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, doctor.ErrNotFound) {
		handler.Fail(c, http.StatusNotFound, err.Error())
		return
	}
	handler.Fail(c, http.StatusInternalServerError, fallback)
}
