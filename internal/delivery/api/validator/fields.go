package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}

	return name
}

// FieldErrors flattens validation errors into namespace → failed tag, e.g. "location.lat": "required".
func FieldErrors(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		namespace := fieldErr.Namespace()
		if _, rest, ok := strings.Cut(namespace, "."); ok {
			namespace = rest
		}
		fields[namespace] = fieldErr.Tag()
	}

	return fields
}
