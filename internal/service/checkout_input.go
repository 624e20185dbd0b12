package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ShippingInfo struct {
	CustomerName         string `json:"customer_name"          validate:"required,max=255"`
	CustomerEmail        string `json:"customer_email"         validate:"required,email,max=255"`
	ShippingAddressLine1 string `json:"shipping_address_line1" validate:"required,max=255"`
	ShippingAddressLine2 string `json:"shipping_address_line2" validate:"omitempty,max=255"`
	ShippingCity         string `json:"shipping_city"          validate:"required,max=255"`
	ShippingState        string `json:"shipping_state"         validate:"required,max=255"`
	ShippingPostalCode   string `json:"shipping_postal_code"   validate:"required,max=10"`
	ShippingCountry      string `json:"shipping_country"       validate:"required,max=255"`
}

func (s *ShippingInfo) normalize() {
	s.CustomerName = strings.TrimSpace(s.CustomerName)
	s.CustomerEmail = strings.TrimSpace(s.CustomerEmail)
	s.ShippingAddressLine1 = strings.TrimSpace(s.ShippingAddressLine1)
	s.ShippingAddressLine2 = strings.TrimSpace(s.ShippingAddressLine2)
	s.ShippingCity = strings.TrimSpace(s.ShippingCity)
	s.ShippingState = strings.TrimSpace(s.ShippingState)
	s.ShippingPostalCode = strings.TrimSpace(s.ShippingPostalCode)
	s.ShippingCountry = strings.TrimSpace(s.ShippingCountry)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate trims every field and reports all failures at once.
func (s *ShippingInfo) Validate() error {
	s.normalize()

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
