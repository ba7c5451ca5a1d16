package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages renders validator tags. %[1]s is the config key and %[2]s
// the tag parameter.
var fieldMessages = map[string]string{
	"required":    "%[1]s is required",
	"required_if": "%[1]s is required when %[2]s",
	"min":         "%[1]s must be at least %[2]s",
	"max":         "%[1]s must be at most %[2]s",
	"oneof":       "%[1]s must be one of: %[2]s",
	"url":         "%[1]s must be a valid URL",
}

// Validate reports every invalid key at once, using the koanf key names an
// operator would set.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	key := configKey(fe.Namespace())

	format, ok := fieldMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %q check", key, fe.Tag())
	}

	return fmt.Sprintf(format, key, fe.Param())
}

// configKey turns "Config.Sync.PageSize" into "sync.pagesize".
func configKey(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}

	return strings.ToLower(rest)
}
