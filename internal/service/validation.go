package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"pdf-compare/internal/domain"

	"github.com/go-playground/validator/v10"
)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCompareRequest checks a comparison request and returns a
// *domain.ValidationError describing the first invalid field.
func ValidateCompareRequest(req domain.CompareRequest) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	msg := fmt.Sprintf("failed %q validation", fe.Tag())
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "oneof":
		msg = "must be one of: " + fe.Param()
	case "gte":
		msg = "must be at least " + fe.Param()
	case "lte":
		msg = "must be at most " + fe.Param()
	}
	return &domain.ValidationError{Field: fe.Field(), Message: msg}
}
