package resumes

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks r against field rules and date ordering.
func Validate(r Resume) error {
	var issues []FieldIssue
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for _, fe := range verrs {
			issues = append(issues, FieldIssue{Field: fieldPath(fe.Namespace()), Issue: describe(fe)})
		}
	}
	for i, w := range r.WorkExperiences {
		if endsBeforeStart(w.StartDate, w.EndDate) {
			issues = append(issues, FieldIssue{Field: fmt.Sprintf("workExperiences[%d].endDate", i), Issue: "must not be before startDate"})
		}
	}
	for i, e := range r.Educations {
		if endsBeforeStart(e.StartDate, e.EndDate) {
			issues = append(issues, FieldIssue{Field: fmt.Sprintf("educations[%d].endDate", i), Issue: "must not be before startDate"})
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func endsBeforeStart(start, end *Date) bool {
	return start != nil && end != nil && !start.IsZero() && !end.IsZero() && end.Before(*start)
}

// fieldPath turns "Resume.Personal.Email" into "personal.email".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	path := strings.Join(parts, ".")
	// Personal fields are flattened on the wire.
	return strings.TrimPrefix(path, "personal.")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email"
	case "hexcolor":
		return "must be a hex color"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
