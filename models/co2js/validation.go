package co2js

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateType checks the type key of params, if present. A present key
// must hold one of the known model identifiers.
func validateType(params map[string]interface{}) (types.ModelType, bool, error) {
	raw, present := params[types.FieldType]
	if !present {
		return "", false, nil
	}
	if raw == nil {
		return "", true, errors.InputValidation(Name, "type: value is not defined")
	}

	s, ok := raw.(string)
	if !ok {
		return "", true, errors.InputValidation(Name, fmt.Sprintf("type: expected string, received %T", raw))
	}

	candidate := StaticParams{Type: types.ModelType(s)}
	if err := validate.Struct(candidate); err != nil {
		return "", true, errors.InputValidation(Name, formatValidationError(err))
	}
	return candidate.Type, true, nil
}

// validateInput applies an input's type override to sel and checks that the
// input carries bytes.
func (m *Model) validateInput(sel selection, input types.ModelParams) (selection, error) {
	next, err := m.resolve(sel, input)
	if err != nil {
		return sel, err
	}

	bytes := input.Get(types.FieldBytes)
	if !types.IsTruthy(bytes) {
		return sel, errors.InputValidation(Name, "Bytes not provided")
	}
	if _, ok := types.ToFloat64(bytes); !ok {
		return sel, errors.InputValidation(Name, fmt.Sprintf("bytes: expected number, received %v", bytes))
	}

	return next, nil
}

func formatValidationError(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, formatValidationMessage(e))
	}
	return strings.Join(messages, "; ")
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "oneof":
		expected := strings.Join(strings.Fields(e.Param()), "' | '")
		return fmt.Sprintf("%s: invalid enum value, expected '%s', received '%v'", e.Field(), expected, e.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag())
	}
}
