package prescription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SameepSkillup/clinic-api/internal/handler"
	"github.com/SameepSkillup/clinic-api/internal/middleware"
	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/service/appointment"
	"github.com/SameepSkillup/clinic-api/internal/service/prescription"
)

type Handler struct {
	service *prescription.Service
	gate    *middleware.AuthMiddleware
}

func NewHandler(service *prescription.Service, gate *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, gate: gate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/prescriptions", h.gate.RequireRole(model.RoleDoctor))
	group.POST("", h.Save)
	group.GET("/:appointmentId", h.Get)
}

// Save records a prescription and completes the appointment.
func (h *Handler) Save(c *gin.Context) {
	var req model.SavePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Save(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrNotFound):
			handler.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, appointment.ErrNotScheduled), errors.Is(err, prescription.ErrAlreadyExists):
			handler.Fail(c, http.StatusBadRequest, err.Error())
		default:
			handler.Fail(c, http.StatusInternalServerError, "failed to save prescription")
		}
		return
	}
	handler.OK(c, http.StatusCreated, p)
}

func (h *Handler) Get(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	p, err := h.service.GetByAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, prescription.ErrNotFound) {
			handler.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		handler.Fail(c, http.StatusInternalServerError, "failed to get prescription")
		return
	}
	handler.OK(c, http.StatusOK, p)
}
