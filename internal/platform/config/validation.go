package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf key so messages match the
// YAML and APP_* names operators actually set.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}

		return name
	})

	return v
}

// FieldError is a single failed rule.
type FieldError struct {
	Key     string // dotted config key, e.g. quote.max_backoff
	Message string
}

func (e FieldError) String() string {
	return e.Key + " " + e.Message
}

// ValidationError carries every rule the configuration failed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = f.String()
	}

	return "config validation failed:\n  " + strings.Join(lines, "\n  ")
}

// Has reports whether key failed validation.
func (e *ValidationError) Has(key string) bool {
	for _, f := range e.Fields {
		if f.Key == key {
			return true
		}
	}

	return false
}

// Validate checks the configuration. The service refuses to start on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Key:     configKey(fe.Namespace()),
			Message: describe(fe),
		})
	}

	return out
}

// configKey drops the root struct name: "Config.quote.max_backoff" becomes
// "quote.max_backoff".
func configKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "gtefield":
		return "must not be less than " + siblingKey(fe)
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// siblingKey resolves a gtefield parameter (a Go field name) to the
// koanf key of the sibling it names.
func siblingKey(fe validator.FieldError) string {
	key := configKey(fe.Namespace())
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[:i+1] + toSnake(fe.Param())
	}

	return toSnake(fe.Param())
}

// toSnake converts a Go field name to its koanf spelling.
func toSnake(name string) string {
	var b strings.Builder

	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}

			r += 'a' - 'A'
		}

		b.WriteRune(r)
	}

	return b.String()
}
