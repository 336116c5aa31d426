// Package form binds and validates the URL-encoded submissions of the
// venue, artist and show forms.  Validation failures are reported as
// FieldErrors keyed by the form field name.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/venue-booking/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldErrors maps a form field to a human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return strings.Join(parts, "; ")
}

// Validator returns the shared validator with the form rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool { return IsPhone(fl.Field().String()) })
		mustRegister(v, "state", func(fl validator.FieldLevel) bool { return model.IsState(fl.Field().String()) })
		mustRegister(v, "genre", func(fl validator.FieldLevel) bool {
			_, ok := model.ParseGenre(fl.Field().String())
			return ok
		})
		mustRegister(v, "starttime", func(fl validator.FieldLevel) bool {
			_, err := ParseStartTime(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("form: register %s: %v", tag, err))
	}
}

// Validate runs the struct rules on s and returns FieldErrors, or nil.
func Validate(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if i := strings.IndexByte(name, '['); i > 0 {
			name = name[:i]
		}
		if _, seen := out[name]; !seen {
			out[name] = message(fe)
		}
	}
	return out
}

var messages = map[string]string{
	"required":  "This field is required.",
	"url":       "Invalid URL.",
	"phone":     "Invalid phone number.",
	"state":     "Not a valid choice.",
	"genre":     "Not a valid choice.",
	"starttime": "Not a valid datetime value.",
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Tag()]; ok {
		return m
	}
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "gt", "min":
		return "Not a valid choice."
	}
	return fmt.Sprintf("Failed %s validation.", fe.Tag())
}

// IsPhone accepts North American numbers written with optional spaces,
// dashes, dots, parentheses and a leading +1 or 1.
func IsPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c == ' ' || c == '-' || c == '.' || c == '(' || c == ')':
		case c == '+' && i == 0:
		default:
			return false
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	// Area and exchange codes never start with 0 or 1.
	return len(digits) == 10 && digits[0] >= '2' && digits[3] >= '2'
}

var startTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	model.TimeLayout,
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseStartTime parses a datetime-local value.  Values without a zone
// are taken as UTC.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", s)
}

// checked reports whether a checkbox value means "on".
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "off", "n", "no":
		return false
	}
	return true
}

func checkbox(b bool) string {
	if b {
		return "y"
	}
	return ""
}
