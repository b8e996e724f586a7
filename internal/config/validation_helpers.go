package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// convertValidationError normalizes validator errors into emuhud validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return emuerrors.NewValidationError(field, msg, err)
	}

	return emuerrors.NewValidationError("config", err.Error(), err)
}

// yamlishFieldName drops the root struct name and lowercases the rest, so
// CodexFile.Combos[2].Name becomes combos[2].name.
func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

// ValidateStruct runs the shared validator over v and reports the first
// failure as a *errors.ValidationError.
func ValidateStruct(v any) error {
	return convertValidationError(validatorInstance().Struct(v))
}
