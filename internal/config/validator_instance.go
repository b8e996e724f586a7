package config

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern      = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	themeNamePattern   = regexp.MustCompile(`^[a-z0-9_-]+$`)
	elementNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	logLevels          = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("theme_name", func(fl validator.FieldLevel) bool {
			return themeNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("element_name", func(fl validator.FieldLevel) bool {
			return elementNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			_, ok := logLevels[strings.ToLower(fl.Field().String())]
			return ok
		})

		_ = v.RegisterValidation("ability_alternatives", func(fl validator.FieldLevel) bool {
			return len(splitAlternatives(fl.Field().String())) > 0 && validAlternatives(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// splitAlternatives breaks a pipe-separated ability list into trimmed names.
func splitAlternatives(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// validAlternatives rejects empty entries such as "Foi||Gifoi" or "Foi|".
func validAlternatives(raw string) bool {
	for _, alt := range splitAlternatives(raw) {
		if alt == "" {
			return false
		}
	}
	return true
}
