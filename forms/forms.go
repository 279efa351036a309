// Package forms is the form-validation boundary between raw browser input and
// the core services. Handlers bind posted fields into their module's request
// structs and pass them through Validate here; the result is either a clean
// struct or a map from form field name to a human-readable message. Nothing
// past this boundary ever sees an unvalidated primitive.
package forms

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to a human-readable validation message,
// ready for rendering next to the offending input.
type Errors map[string]string

// Any reports whether any field failed validation.
func (e Errors) Any() bool { return len(e) > 0 }

// Add records a message for a field, used by handlers to attach errors that
// come from deeper layers (e.g. a uniqueness conflict) to a specific input.
func (e Errors) Add(field, message string) { e[field] = message }

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the HTML input name from the `form` tag instead of
	// the Go field name, so templates can key directly on what they rendered.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
}

// Validate runs struct validation over the `validate` tags and converts any
// failures into a field-keyed Errors map. A nil-length map means the struct is
// clean.
func Validate(v any) Errors {
	errs := Errors{}
	if err := validate.Struct(v); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			// A non-validation error here means the struct itself was unusable;
			// surface it as a form-level message.
			errs.Add("form", "invalid input")
			return errs
		}
		for _, fe := range validationErrors {
			// First error per field wins; later tags on the same field usually
			// restate the same problem.
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = message(fe)
			}
		}
	}
	return errs
}

// message renders one validator tag failure as user-facing text.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return "This value is invalid."
	}
}

// Field returns the trimmed value of a posted form field.
func Field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}
