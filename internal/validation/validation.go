// Package validation wraps go-playground/validator so that services report
// every failing field as a domain.ValidationError keyed by its JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Messages maps "field.tag" (or just "field") to a user-facing message.
type Messages map[string]string

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns one FieldError per failing field. The
// first failing rule of a field wins.
func (v *Validator) Struct(s any, messages Messages) []domain.FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "", Message: err.Error(), Err: err}}
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, domain.FieldError{Field: name, Message: messages.lookup(fe)})
	}
	return fields
}

func (m Messages) lookup(fe validator.FieldError) string {
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", humanize(fe.Field()))
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", humanize(fe.Field()), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("The %s must be at least %s.", humanize(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", humanize(fe.Field()))
	}
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
