package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// ErrInvalidValue is returned for values a field's checks reject.
var ErrInvalidValue = errors.New("invalid config value")

// check is one constraint on a field, with a readable form of what it allows.
type check struct {
	allowed string
	test    func(v any) error
}

var positiveDuration = check{"greater than 0", func(v any) error {
	if d, ok := v.(time.Duration); ok && d <= 0 {
		return fmt.Errorf("must be greater than 0, got %s", d)
	}
	return nil
}}

var nonNegativeDuration = check{"0 or more", func(v any) error {
	if d, ok := v.(time.Duration); ok && d < 0 {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}}

var notBlank = check{"not empty", func(v any) error {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}}

func intRange(min, max int) check {
	return check{fmt.Sprintf("%d to %d", min, max), func(v any) error {
		if n, ok := v.(int); ok && (n < min || n > max) {
			return fmt.Errorf("must be between %d and %d, got %d", min, max, n)
		}
		return nil
	}}
}

func oneOf(options ...string) check {
	return check{strings.Join(options, ", "), func(v any) error {
		if s, ok := v.(string); ok && !lo.Contains(options, s) {
			return fmt.Errorf("must be one of %s, got %q", strings.Join(options, ", "), s)
		}
		return nil
	}}
}

// Allowed describes the values the field accepts, or "" when any value of its type is.
func (f Field) Allowed() string {
	return strings.Join(lo.Map(f.checks, func(c check, _ int) string { return c.allowed }), "; ")
}

// Validate runs the field's checks against v.
func (f Field) Validate(v any) error {
	for _, c := range f.checks {
		if err := c.test(v); err != nil {
			return fmt.Errorf("%w: %s %s", ErrInvalidValue, f.Key, err)
		}
	}
	return nil
}

// Parse converts command line arguments into a value of the field's type and validates it.
func (f Field) Parse(values []string) (any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s needs a value", ErrInvalidValue, f.Key)
	}

	var (
		v   any
		err error
	)

	switch f.Value.(type) {
	case string:
		v = values[0]
	case int:
		v, err = strconv.Atoi(values[0])
	case bool:
		v, err = strconv.ParseBool(values[0])
	case time.Duration:
		v, err = time.ParseDuration(values[0])
	case []string:
		v = values
	default:
		return nil, fmt.Errorf("%s has unsupported type %s", f.Key, f.typeName())
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s expects a %s: %s", ErrInvalidValue, f.Key, f.typeName(), err)
	}

	return v, f.Validate(v)
}

var lastCheck error

// LastCheck returns the result of the latest Check. Rejected values are
// already replaced by defaults at that point, so checking again would pass.
func LastCheck() error {
	return lastCheck
}

// Check validates the effective value of every field. Rejected values are
// replaced by their defaults and reported together.
func Check() error {
	var errs []error

	keys := lo.Keys(Default)
	slices.Sort(keys)

	for _, name := range keys {
		field := Default[name]
		if err := field.Validate(viper.Get(name)); err != nil {
			viper.Set(name, field.Value)
			errs = append(errs, err)
		}
	}

	lastCheck = errors.Join(errs...)
	return lastCheck
}
