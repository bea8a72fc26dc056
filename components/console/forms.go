package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ettle/strcase"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParentCreateForm is the add-user dialog payload. Every field is required.
type ParentCreateForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// Validate reports the first missing or malformed field.
func (f ParentCreateForm) Validate() error { return validateForm(f) }

// ParentUpdateForm is the edit-user dialog payload. The full form is resent;
// a blank password means "keep the current one", so it is not required.
type ParentUpdateForm struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password"`
	IsVerified bool   `json:"isVerified"`
}

// Validate reports the first missing or malformed field.
func (f ParentUpdateForm) Validate() error { return validateForm(f) }

// FeedbackForm is the add/edit feedback dialog payload.
type FeedbackForm struct {
	ParentID string `json:"parentId" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"required"`
}

// Validate reports the first missing field or out-of-range rating.
func (f FeedbackForm) Validate() error { return validateForm(f) }

// LogForm is the add/edit log dialog payload. The event type must belong to
// the fixed enum.
type LogForm struct {
	ParentID    string    `json:"parentId" validate:"required"`
	EventType   EventType `json:"eventType" validate:"required"`
	Description string    `json:"description" validate:"required"`
}

// Validate reports missing fields and unknown event types.
func (f LogForm) Validate() error {
	if err := validateForm(f); err != nil {
		return err
	}
	for _, et := range EventTypes() {
		if f.EventType == et {
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", f.EventType)
}

func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strcase.ToCase(fe.Field(), strcase.LowerCase, ' ')
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min", "max":
			msgs = append(msgs, field+" is out of range")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
