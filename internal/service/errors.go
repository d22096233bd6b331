package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrNotAllowed             = errors.New("not allowed")
	ErrUnknownChallengeType   = errors.New("unknown challenge type")
	ErrDuplicateChallengeType = errors.New("challenge type already registered")
	ErrInvalidForm            = errors.New("invalid form")
)

// parseRequiredInt converts a mandatory numeric form field.
func parseRequiredInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidForm, field)
	}
	return v, nil
}

// parseBlankAsZero converts an optional numeric form field. A blank value
// is 0, not "unchanged".
func parseBlankAsZero(field, raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return parseRequiredInt(field, raw)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
