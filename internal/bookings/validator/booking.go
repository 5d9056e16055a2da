package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a booking request against the calendar day today.
// A check-out before the check-in is reported on check_out_date.
func (v *BookingValidator) Validate(req *model.BookingRequest, today model.Date) error {
	var errs ValidationErrors

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		errs = append(errs, v.translateValidationErrors(validationErrs)...)
	}

	if req.CheckInDate.IsZero() {
		errs = append(errs, ValidationError{Field: "check_in_date", Message: "check_in_date is required"})
	}
	if req.CheckOutDate.IsZero() {
		errs = append(errs, ValidationError{Field: "check_out_date", Message: "check_out_date is required"})
	}

	if !req.CheckInDate.IsZero() && !req.CheckOutDate.IsZero() {
		if req.CheckOutDate.Before(req.CheckInDate) {
			errs = append(errs, ValidationError{
				Field:   "check_out_date",
				Message: "check_out_date must not be before check_in_date",
			})
		}
		if !req.CheckOutDate.After(today) {
			errs = append(errs, ValidationError{
				Field:   "check_out_date",
				Message: "check_out_date must be in the future",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
