package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every call; a *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so rejections match the request keys.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: registering email_shape: %v", err))
	}
	return v
}

// check runs the struct tags of draft and turns the first failing field into
// a *Rejection tagged with reason.
func check(draft any, reason Reason) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation: checking %T: %w", draft, err)
	}
	fe := fieldErrs[0]
	return &Rejection{Reason: reason, Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", fe.Field(), fe.Param())
	case "email_shape":
		return "invalid email format"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
