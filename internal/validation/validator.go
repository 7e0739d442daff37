// Package validation registers the domain binding tags on gin's validator
// and turns validator errors into field level details.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/event-management-api/internal/models"
)

var registerOnce sync.Once

// Register installs the custom tags on gin's default validator. Safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonTagName)

	for tag, fn := range map[string]validator.Func{
		"eventstatus":        validateEventStatus,
		"registrationstatus": validateRegistrationStatus,
		"role":               validateRole,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

func jsonTagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validateEventStatus(fl validator.FieldLevel) bool {
	return models.EventStatus(fl.Field().String()).Valid()
}

func validateRegistrationStatus(fl validator.FieldLevel) bool {
	return models.RegistrationStatus(fl.Field().String()).Valid()
}

func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// FieldError describes one failed field.
type FieldError struct {
	Field   string `json:"campo"`
	Message string `json:"mensagem"`
}

// Details converts a binding error into field errors.
// It returns nil when err is not a validation error, e.g. malformed JSON.
func Details(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return details
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "email inválido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("deve ter pelo menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("deve ser maior ou igual a %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("deve ser menor ou igual a %s", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("deve ser maior que %s", fe.Param())
	case "eventstatus":
		return "status de evento inválido"
	case "registrationstatus":
		return "status de inscrição inválido"
	case "role":
		return "papel inválido"
	default:
		return "valor inválido"
	}
}
