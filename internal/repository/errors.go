package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced user or image does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a unique user attribute is taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
