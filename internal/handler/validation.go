package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SameepSkillup/clinic-api/internal/service/schedule"
)

// RegisterValidations installs the custom binding rules on gin's validator
// engine. "timeslot" accepts only catalog times of day.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return schedule.InCatalog(fl.Field().String())
	})
}
