// Package validation checks entities against their field rules and reports
// every failure as a (field, message) pair.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"webblogger/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator validates entities built from commands before they reach storage.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// Option customises a Validator.
type Option func(*Validator)

// WithClock overrides the clock used by the notfuture rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New builds a Validator with the custom rules registered.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.After(v.now())
	})
	return v
}

// Failures validates entity and returns every failure, empty when valid.
func (v *Validator) Failures(entity any) []models.FieldFailure {
	err := v.validate.Struct(entity)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []models.FieldFailure{{Field: "", Message: err.Error()}}
	}
	entityName := typeName(entity)
	failures := make([]models.FieldFailure, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		failures = append(failures, models.FieldFailure{
			Field:   fe.Field(),
			Message: message(entityName, fe),
		})
	}
	return failures
}

// Validate returns a ValidationFailed error carrying every failure, or nil.
func (v *Validator) Validate(entity any) error {
	if failures := v.Failures(entity); len(failures) > 0 {
		return models.NewValidationFailedError(failures)
	}
	return nil
}

func typeName(entity any) string {
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

type ruleKey struct {
	entity, field, tag string
}

var messages = map[ruleKey]string{
	{"Post", "Title", "required"}:       "Title is required.",
	{"Post", "Title", "min"}:            "Title must be between 5 and 1,000 characters.",
	{"Post", "Title", "max"}:            "Title must be between 5 and 1,000 characters.",
	{"Post", "Content", "required"}:     "Content is required.",
	{"Post", "Content", "min"}:          "Content must be between 10 and 50,000 characters.",
	{"Post", "Content", "max"}:          "Content must be between 10 and 50,000 characters.",
	{"Post", "PublishedOn", "notfuture"}: "Post publication date can't be in the future.",
	{"Post", "Status", "oneof"}:         "Invalid post status.",
	{"Comment", "Content", "required"}:  "Content cannot be empty.",
	{"Comment", "Content", "max"}:       "Comment cannot be longer than 10000 characters.",
	{"Tag", "Name", "required"}:         "The tag name cannot be empty.",
	{"Tag", "Name", "max"}:              "The tag name cannot be longer than 100 characters.",
	{"Tag", "Description", "max"}:       "Tag description cannot be longer than 2000 characters.",
}

func message(entity string, fe validator.FieldError) string {
	if msg, ok := messages[ruleKey{entity, fe.Field(), fe.Tag()}]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", fe.Field())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s characters.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule.", fe.Field(), fe.Tag())
	}
}
