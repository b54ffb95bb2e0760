package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the targeted row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means the membership pair is already present.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSelfFollow means a user tried to subscribe to themselves.
	ErrSelfFollow = errors.New("cannot subscribe to yourself")
	// ErrNotAuthor means a caller tried to mutate someone else's recipe.
	ErrNotAuthor = errors.New("only the author may modify this recipe")
	// ErrCompositionFailed wraps transactional write failures during
	// recipe composition. Not retried: recipe payloads are not safely
	// replayable without client confirmation.
	ErrCompositionFailed = errors.New("recipe composition failed")
)

// ValidationErrors collects per-field validation messages so a client
// gets every problem in one round-trip.
type ValidationErrors struct {
	Fields map[string][]string
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Fields: make(map[string][]string)}
}

// Add appends a message for the given field.
func (v *ValidationErrors) Add(field, message string) {
	v.Fields[field] = append(v.Fields[field], message)
}

// Empty reports whether any message has been collected.
func (v *ValidationErrors) Empty() bool {
	return len(v.Fields) == 0
}

func (v *ValidationErrors) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(v.Fields[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
