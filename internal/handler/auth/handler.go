package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SameepSkillup/clinic-api/internal/handler"
	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	group.POST("/admin/login", h.AdminLogin)
	group.POST("/doctor/login", h.DoctorLogin)
	group.POST("/patient/login", h.PatientLogin)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.LoginAdmin(c.Request.Context(), req.Username, req.Password)
	h.respond(c, tokens, err)
}

func (h *Handler) DoctorLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.LoginDoctor(c.Request.Context(), req.Email, req.Password)
	h.respond(c, tokens, err)
}

func (h *Handler) PatientLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.LoginPatient(c.Request.Context(), req.Email, req.Password)
	h.respond(c, tokens, err)
}

func (h *Handler) respond(c *gin.Context, tokens *model.TokenResponse, err error) {
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			handler.Fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		handler.Fail(c, http.StatusInternalServerError, "login failed")
		return
	}
	handler.OK(c, http.StatusOK, tokens)
}
