package sanitize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateSegmentNumber is returned when a segment number occurs twice in one container.
	ErrDuplicateSegmentNumber = errors.New("duplicate segment number")
	// ErrSurplusAhbElements is returned when the AHB has more elements at a position than the MIG allows.
	ErrSurplusAhbElements = errors.New("ahb has elements the mig does not define")
	// ErrLengthMismatch is returned when the reconciled element list differs in length from the MIG list.
	ErrLengthMismatch = errors.New("reconciled element count differs from mig")
	// ErrSentinelCollision is returned when the document already defines the reserved condition number.
	ErrSentinelCollision = errors.New("reserved condition number already defined")
	// ErrUnknownNode is returned for a node that is neither a segment nor a segment group.
	ErrUnknownNode = errors.New("node is neither segment nor segment group")
	// ErrUnknownElement is returned for an element that is neither a data element nor a data element group.
	ErrUnknownElement = errors.New("element is neither data element nor data element group")
	// ErrMissingMig is returned when no MIG is available for an Anwendungsfall's format.
	ErrMissingMig = errors.New("no mig for format")
)

// SegmentError locates a reconciliation failure.
type SegmentError struct {
	Pruefidentifikator string
	SegmentNumber      string
	// ElementPath lists the element ids from the segment down to the failing list.
	ElementPath []string
	Err         error
}

func (e *SegmentError) Error() string {
	msg := fmt.Sprintf("segment %s", e.SegmentNumber)
	if e.Pruefidentifikator != "" {
		msg = fmt.Sprintf("pruefidentifikator %s, %s", e.Pruefidentifikator, msg)
	}
	if len(e.ElementPath) > 0 {
		msg += " > " + strings.Join(e.ElementPath, " > ")
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}
