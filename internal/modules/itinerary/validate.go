package itinerary

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a request before anything is sent to a model.
// Missing fields win over malformed ones so the form can be fixed in one pass.
func (r TripRequest) Validate() error {
	var missing []string
	problems := make([]string, 0, len(r.invalid))
	for _, name := range r.invalid {
		problems = append(problems, describeRule(name, ""))
	}

	err := validate.Struct(r)
	var verrs validator.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return invalidFieldsError([]string{err.Error()})
	}
	for _, fe := range verrs {
		name := fe.Field()
		if fe.Tag() == "required" {
			if !slices.Contains(r.invalid, name) {
				missing = append(missing, name)
			}
			continue
		}
		problems = append(problems, describeRule(name, fe.Tag()))
	}

	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	if len(problems) > 0 {
		return invalidFieldsError(problems)
	}
	return nil
}

func describeRule(field, tag string) string {
	switch field {
	case "numberOfDays":
		return "numberOfDays must be a positive whole number"
	case "budget":
		return "budget must be a positive number"
	case "familyType":
		return "familyType must be one of solo, couple, family-kids, family-elder"
	default:
		return fmt.Sprintf("%s failed %q", field, tag)
	}
}
