package validator

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	maxRoomTypeLength = 50
	maxPriceScale     = 2
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

type RoomValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	v := validator.New()

	if err := v.RegisterValidation("room_type", validateRoomType); err != nil {
		log.Fatal("Failed to register 'room_type' validator", "error", err)
	}
	if err := v.RegisterValidation("price", validatePrice); err != nil {
		log.Fatal("Failed to register 'price' validator", "error", err)
	}

	return &RoomValidator{
		validate: v,
		logger:   log,
	}
}

func validateRoomType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len([]rune(s)) > maxRoomTypeLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}

func validatePrice(fl validator.FieldLevel) bool {
	_, err := ParsePrice(fl.Field().String())
	return err == nil
}

// ParsePrice accepts a positive decimal with at most two fractional digits.
func ParsePrice(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	price, ok := new(big.Rat).SetString(s)
	if !ok || strings.ContainsAny(s, "/eE") {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("price must be greater than zero")
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > maxPriceScale {
		return nil, fmt.Errorf("price supports at most %d decimal places", maxPriceScale)
	}
	return price, nil
}

// ValidateCreate requires every field of a new room.
func (v *RoomValidator) ValidateCreate(input *model.RoomInput) error {
	var errs ValidationErrors
	if input.Photo == nil || len(input.Photo.Data) == 0 {
		errs = append(errs, ValidationError{Field: "photo", Message: "photo is required"})
	}
	if input.RoomType == "" {
		errs = append(errs, ValidationError{Field: "room_type", Message: "room_type is required"})
	}
	if input.RoomPrice == "" {
		errs = append(errs, ValidationError{Field: "room_price", Message: "room_price is required"})
	}

	if err := v.ValidateUpdate(input); err != nil {
		var fieldErrs ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateUpdate checks only the fields that are present.
func (v *RoomValidator) ValidateUpdate(input *model.RoomInput) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RoomValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := fieldName(err.Field())
		message := err.Error()

		switch err.Tag() {
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		case "room_type":
			message = fmt.Sprintf("%s must be 1-%d letters, digits, spaces or hyphens", field, maxRoomTypeLength)
		case "price":
			message = fmt.Sprintf("%s must be a positive amount with at most %d decimals", field, maxPriceScale)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

func fieldName(structField string) string {
	switch structField {
	case "RoomType":
		return "room_type"
	case "RoomPrice":
		return "room_price"
	case "Description":
		return "room_description"
	}
	return structField
}
