package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osgood/armorytrack/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// characterkey accepts canonical region|realm|name keys with a known region
	_ = v.RegisterValidation("characterkey", func(fl validator.FieldLevel) bool {
		region, _, _, err := domain.ParseCharacterKey(fl.Field().String())
		if err != nil {
			return false
		}
		return domain.IsKnownRegion(region)
	})
	return v
}

// Validate checks the loaded configuration for structural problems: missing
// credentials, an empty character list, or malformed character keys
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fields := make([]string, 0, len(invalid))
	for _, fieldErr := range invalid {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(fields, ", "))
}
