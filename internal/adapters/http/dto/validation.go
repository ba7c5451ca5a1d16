package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// jsonTagParts splits a json tag into the name and its options.
const jsonTagParts = 2

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors follow the
// json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "" {
				tag = fld.Tag.Get("form")
			}

			name := strings.SplitN(tag, ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("notblank", validateNotBlank)
	})

	return validate
}

// BindJSON decodes the body into v and validates it. On failure it writes a
// 400 and returns false.
func BindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		AbortWithCode(c, ErrorCodeBadRequest, "request body is not valid JSON")
		return false
	}

	return validateOrAbort(c, v)
}

// BindQuery decodes the query string into v and validates it. On failure it
// writes a 400 and returns false.
func BindQuery(c *gin.Context, v any) bool {
	if err := c.ShouldBindQuery(v); err != nil {
		AbortWithCode(c, ErrorCodeBadRequest, "invalid query parameters")
		return false
	}

	return validateOrAbort(c, v)
}

func validateOrAbort(c *gin.Context, v any) bool {
	err := Validator().Struct(v)
	if err == nil {
		return true
	}

	AbortWithValidation(c, "request validation failed", ValidationErrors(err))

	return false
}

// ValidationErrors maps field names to messages.
func ValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	}

	return fields
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"notblank": "must not be blank",
	"gte":      "must be greater than or equal to {param}",
	"lte":      "must be less than or equal to {param}",
	"oneof":    "must be one of: {param}",
}

func validationMessage(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()

	if tag == "min" || tag == "max" {
		suffix := ""
		if fe.Kind() == reflect.String {
			suffix = " characters"
		}

		if tag == "min" {
			return "must be at least " + param + suffix
		}

		return "must be at most " + param + suffix
	}

	if msg, ok := validationMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", param)
	}

	return "failed validation: " + tag
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
