package controller

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Validator is implemented by DTOs that carry their own validation rules.
type Validator interface {
	Validate() error
}

// ValidateDTO runs dto.Validate when available and otherwise checks fields
// tagged `validate:"required"`. Failures are returned as 400 AppErrors.
func ValidateDTO(dto interface{}) error {
	if dto == nil {
		return NewValidationErrorWithCode("validation.dto_nil", "request body is required", nil)
	}
	v := reflect.ValueOf(dto)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return NewValidationErrorWithCode("validation.dto_nil", "request body is required", nil)
	}

	if validator, ok := dto.(Validator); ok {
		if err := validator.Validate(); err != nil {
			var appErr *AppError
			if errors.As(err, &appErr) {
				return err
			}
			return NewValidationError(err.Error(), nil)
		}
		return nil
	}

	return validateStruct(v)
}

func validateStruct(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var missing []string
	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		if tag := fieldType.Tag.Get("validate"); strings.Contains(tag, "required") && isZeroValue(v.Field(i)) {
			missing = append(missing, fmt.Sprintf("field '%s' is required", jsonName(fieldType)))
		}
	}

	if len(missing) > 0 {
		return NewValidationError("validation failed", map[string]interface{}{"errors": missing})
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if name := strings.Split(tag, ",")[0]; name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	default:
		return v.IsZero()
	}
}
