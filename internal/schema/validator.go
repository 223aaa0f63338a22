package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var specValidator = validator.New()

// validateRawTag checks the structural rules of a decoded spec. Violations
// are repaired by the builder; these errors only report them.
func validateRawTag(path string, r *rawTag) []error {
	err := specValidator.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []error{fmt.Errorf("tag %q: %w", path, err)}
	}

	out := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "gte":
			out = append(out, fmt.Errorf("tag %q: %s must not be negative", path, fieldKey(fe.Field())))
		case "excluded_with":
			out = append(out, fmt.Errorf("tag %q: values and no_value are mutually exclusive; no_value ignored", path))
		default:
			out = append(out, fmt.Errorf("tag %q: %s fails %s", path, fieldKey(fe.Field()), fe.Tag()))
		}
	}
	return out
}

func fieldKey(field string) string {
	switch field {
	case "Min":
		return "min"
	case "Max":
		return "max"
	case "Values":
		return "values"
	}
	return field
}
