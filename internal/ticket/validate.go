package ticket

import (
	"strings"
	"unicode/utf8"
)

const MaxDescriptionLength = 500

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
)

// Validate checks in without looking at any stored state, so the form and the
// store run the exact same rules. The result is empty, never nil, when in is
// valid.
func Validate(in Input) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs[FieldTitle] = "Title is required"
	}
	if in.Status == "" {
		errs[FieldStatus] = "Status is required"
	} else if !in.Status.IsValid() {
		errs[FieldStatus] = "Status must be open, in_progress, or closed"
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		errs[FieldDescription] = "Description must be less than 500 characters"
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		errs[FieldPriority] = "Priority must be low, medium, or high"
	}
	return errs
}

// Err returns a *ValidationError for a non-empty set of field errors.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}
