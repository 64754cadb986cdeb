package sanitize

import (
	"errors"
	"fmt"
)

// aligner walks a MIG list and an AHB list with two cursors.
type aligner[T any] struct {
	id          func(T) string
	matches     func(mig, ahb T) bool
	merge       func(mig, ahb T) (T, error)
	placeholder func(mig T) T
}

// align returns a list of len(mig) elements: matched AHB elements in place, placeholders for gaps.
func (a aligner[T]) align(mig, ahb []T) ([]T, error) {
	out := make([]T, 0, len(mig))
	cursor := 0

	for _, m := range mig {
		if cursor < len(ahb) && a.matches(m, ahb[cursor]) {
			merged, err := a.merge(m, ahb[cursor])
			if err != nil {
				return nil, err
			}
			out = append(out, merged)
			cursor++
			continue
		}
		// The AHB cursor stays; the same AHB element is tested against the next MIG element.
		out = append(out, a.placeholder(m))
	}

	if cursor < len(ahb) {
		first := a.id(ahb[cursor])
		return nil, &alignError{
			path: []string{first},
			err:  fmt.Errorf("%w: %d unconsumed element(s) starting at %s", ErrSurplusAhbElements, len(ahb)-cursor, first),
		}
	}

	if len(out) != len(mig) {
		return nil, &alignError{err: fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(out), len(mig))}
	}

	return out, nil
}

type alignError struct {
	path []string
	err  error
}

func (e *alignError) Error() string {
	return fmt.Sprintf("%v: %v", e.path, e.err)
}

func (e *alignError) Unwrap() error {
	return e.err
}

// nestError prefixes the element path of err with the id of the enclosing element.
func nestError(id string, err error) error {
	var ae *alignError
	if errors.As(err, &ae) {
		return &alignError{path: append([]string{id}, ae.path...), err: ae.err}
	}
	return &alignError{path: []string{id}, err: err}
}
