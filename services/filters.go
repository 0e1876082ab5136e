package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New()

// ValidationError wraps rejected request parameters.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid parameters: " + strings.Join(e.Fields, "; ")
}

// ValidateRequest checks a filter or request struct against its validate
// tags.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		if fe.Param() != "" {
			ve.Fields = append(ve.Fields, fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			ve.Fields = append(ve.Fields, fmt.Sprintf("%s: must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return ve
}

// selection is a set of accepted values; an empty selection accepts
// everything.
type selection map[string]struct{}

func newSelection(values []string) selection {
	s := make(selection, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				s[part] = struct{}{}
			}
		}
	}
	return s
}

func (s selection) accepts(v string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[v]
	return ok
}
