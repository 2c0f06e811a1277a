package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	triplePattern = regexp.MustCompile(`^[a-z0-9_]+(-[a-z0-9_]+)+$`)
)

// validatorInstance configures and returns the shared validator instance
// used across the config package: semver for the document version, triple
// for every target-triple-shaped field (build/host/target lists).
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("triple", func(fl validator.FieldLevel) bool {
			return triplePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the
// config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}
