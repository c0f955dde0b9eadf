package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyReturned   = errors.New("issuance already returned")
	ErrValidation        = errors.New("validation failed")
	ErrUserInactive      = errors.New("user account is inactive")

	// ErrStore marks storage faults. They are surfaced after rollback and
	// never retried by the core.
	ErrStore = errors.New("store failure")
)

var (
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrIssuanceNotFound = fmt.Errorf("issuance %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrItemHasIssuances  = fmt.Errorf("item has issuance records: %w", ErrConflict)
	ErrCategoryHasItems  = fmt.Errorf("category has inventory items: %w", ErrConflict)
	ErrCategoryNameTaken = fmt.Errorf("category name already exists: %w", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrVersionConflict   = fmt.Errorf("item was modified concurrently: %w", ErrConflict)
	ErrNotIssued         = fmt.Errorf("issuance is not open: %w", ErrConflict)
)

// ValidationError lists rejected fields. It matches ErrValidation with
// errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
