package utils

import (
	"github.com/go-playground/validator/v10"
	"regexp"
)

var (
	Validate *validator.Validate

	merchantOrderIDPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]+$`)
)

func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator with the custom tags used by the request DTOs.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("merchant_order_id", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) <= 50 && merchantOrderIDPattern.MatchString(s)
	})
	return v
}
