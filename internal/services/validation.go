package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"portfolio-service/internal/models"
)

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError lists the fields of a ProjectInput that failed validation.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("base64datauri", validateBase64DataURI); err != nil {
		panic(err)
	}
	return v
}

// validateBase64DataURI accepts data:<mediatype>;base64,<payload>. The payload
// is decoded as a stream so large images are checked in linear time.
func validateBase64DataURI(fl validator.FieldLevel) bool {
	return isBase64DataURI(fl.Field().String())
}

func isBase64DataURI(s string) bool {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return false
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return false
	}
	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok || !strings.Contains(mediaType, "/") {
		return false
	}
	if len(payload)%4 != 0 {
		return false
	}
	_, err := io.Copy(io.Discard, base64.NewDecoder(base64.StdEncoding, strings.NewReader(payload)))
	return err == nil
}

// ValidateInput checks the required fields, the rating bounds and the image encoding.
func ValidateInput(v *validator.Validate, in models.ProjectInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate project input")
	}
	return &ValidationError{Details: formatValidationErrors(fieldErrs)}
}

func formatValidationErrors(errs validator.ValidationErrors) []string {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", fe.Field())
		case "min":
			msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "base64datauri":
			msg = fmt.Sprintf("%s must be a base64 data URI", fe.Field())
		default:
			msg = fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}
		details = append(details, msg)
	}
	return details
}
