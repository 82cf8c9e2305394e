// Package contact validates and submits the site's contact form.
package contact

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear in the HTML form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// MinMessageLen is the minimum message length after trimming.
const MinMessageLen = 10

// Form is the submitted contact form.
type Form struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,contactemail"`
	Message string `form:"message" validate:"required,min=10"`
}

// FieldErrors maps a form field name to its user-facing error message.
type FieldErrors map[string]string

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var messages = map[string]map[string]string{
	FieldName: {
		"required": "El nombre es requerido",
	},
	FieldEmail: {
		"required":     "El email es requerido",
		"contactemail": "Por favor, ingresa un email válido",
	},
	FieldMessage: {
		"required": "El mensaje es requerido",
		"min":      "El mensaje debe tener al menos 10 caracteres",
	},
}

// RequiredMessage is shown by single-field validation for an empty field.
const RequiredMessage = "Este campo es requerido"

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = validate.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate checks every field and returns one message per invalid field.
// It returns nil when the form is valid.
func Validate(f Form) FieldErrors {
	err := validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, ok := out[fe.Field()]; ok {
			continue
		}
		out[fe.Field()] = messages[fe.Field()][fe.Tag()]
	}
	return out
}

// ValidateField checks a single field as the user leaves it. Unknown
// fields are only checked for presence. It returns "" when the value is valid.
func ValidateField(field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return RequiredMessage
	}
	var tag string
	switch field {
	case FieldEmail:
		tag = "contactemail"
	case FieldMessage:
		tag = "min=10"
	default:
		return ""
	}
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return messages[field][verrs[0].Tag()]
		}
		return err.Error()
	}
	return ""
}
