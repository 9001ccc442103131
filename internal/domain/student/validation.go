package student

import (
	"strings"
	"unicode/utf8"
)

// NormalizeName trims surrounding whitespace and validates the result.
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return trimmed, nil
}

// ValidateRecord validates a record passed for update and returns a copy
// carrying the normalized name.
func ValidateRecord(rec *Student) (Student, error) {
	if rec == nil {
		return Student{}, ErrInvalidRecord
	}
	name, err := NormalizeName(rec.Name)
	if err != nil {
		return Student{}, err
	}
	return Student{ID: rec.ID, Name: name}, nil
}
