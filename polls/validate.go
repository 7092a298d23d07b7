// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	titleMinLen      = 2
	titleMaxLen      = 100
	descMaxLen       = 500
	optionTextMaxLen = 200
	minOptions       = 2
	maxOptions       = 10
)

// FieldError is a single validation failure, addressed to a form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects field-level failures. It is rejected before
// any store call is made.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return strings.Join(msgs, "; ")
}

// ValidateSpec checks the shape and lengths of a poll spec. Returns nil
// or a *ValidationError listing every failing field.
func ValidateSpec(spec Spec) error {
	var fields []FieldError

	if utf8.RuneCountInString(spec.Title) < titleMinLen {
		fields = append(fields, FieldError{"title", fmt.Sprintf("title must be at least %d characters", titleMinLen)})
	} else if utf8.RuneCountInString(spec.Title) > titleMaxLen {
		fields = append(fields, FieldError{"title", fmt.Sprintf("title must be less than %d characters", titleMaxLen)})
	}

	if utf8.RuneCountInString(spec.Description) > descMaxLen {
		fields = append(fields, FieldError{"description", fmt.Sprintf("description must be less than %d characters", descMaxLen)})
	}

	if len(spec.Options) < minOptions {
		fields = append(fields, FieldError{"options", fmt.Sprintf("please add at least %d options", minOptions)})
	} else if len(spec.Options) > maxOptions {
		fields = append(fields, FieldError{"options", fmt.Sprintf("you can add a maximum of %d options", maxOptions)})
	}

	for i, o := range spec.Options {
		if o.Text == "" {
			fields = append(fields, FieldError{fmt.Sprintf("options[%d]", i), "option cannot be empty"})
		} else if utf8.RuneCountInString(o.Text) > optionTextMaxLen {
			fields = append(fields, FieldError{fmt.Sprintf("options[%d]", i), "option too long"})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
