package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when a MIG status attribute holds an unknown value.
var ErrUnknownStatus = errors.New("unknown status")

// Status is the standard or specification status of a MIG element.
type Status string

const (
	StatusNone        Status = ""
	StatusMandatory   Status = "M"
	StatusRequired    Status = "R"
	StatusDependent   Status = "D"
	StatusOptional    Status = "O"
	StatusNotUsed     Status = "N"
	StatusConditional Status = "C"
	StatusForbidden   Status = "X"
)

// ParseStatus converts a raw status attribute. Empty input yields StatusNone.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	switch s {
	case StatusNone, StatusMandatory, StatusRequired, StatusDependent, StatusOptional,
		StatusNotUsed, StatusConditional, StatusForbidden:
		return s, nil
	default:
		return StatusNone, fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// String returns the raw status letter.
func (s Status) String() string {
	return string(s)
}
