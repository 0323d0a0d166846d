package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"babyboss-sales/internal/model"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// ErrValidation is wrapped by every error returned from Error.
var ErrValidation = errors.New("Validation failed")

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

func init() {
	// role: staff, manager or admin in any case
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.Role(strings.ToLower(fl.Field().String())).Valid()
	})
	validate.RegisterValidation("branch", func(fl validator.FieldLevel) bool {
		return model.Branch(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return dateRe.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("ym", func(fl validator.FieldLevel) bool {
		return monthRe.MatchString(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Error formats the first validation failure, or returns nil.
func Error(data interface{}) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: Field '%s' failed on tag '%s'", ErrValidation, errs[0].FailedField, errs[0].Tag)
}
