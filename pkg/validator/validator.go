package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/hospitalon/hospital-api/internal/model"
)

// RegisterCustomValidations installs domain validations on gin's binding
// engine so request structs can use them in binding tags.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("bloodgroup", validateBloodGroup)
}

func validateBloodGroup(fl validator.FieldLevel) bool {
	return model.BloodGroup(fl.Field().String()).Valid()
}
