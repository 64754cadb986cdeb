package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownElement is returned for child tags that match no known node kind.
	ErrUnknownElement = errors.New("unknown element")
	// ErrMissingAttribute is returned when a required attribute is absent or empty.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrInvalidAttribute is returned when an attribute cannot be converted.
	ErrInvalidAttribute = errors.New("invalid attribute")
	// ErrEmptyDocument is returned when the document has no root element.
	ErrEmptyDocument = errors.New("document has no root element")
)

// ElementError locates a read failure in the source document.
type ElementError struct {
	Tag  string
	Path string
	Err  error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %s at %s: %v", e.Tag, e.Path, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
