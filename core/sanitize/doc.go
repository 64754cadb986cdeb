// Package sanitize reconciles AHB trees against their governing MIG.
//
// An AHB only lists the elements that carry a usage status in its
// Anwendungsfall. The MIG lists every element the wire format permits. After
// sanitization every MIG data element and data element group below a segment
// number shared by both trees has exactly one AHB counterpart at the same
// position; missing ones are synthesized as placeholders.
//
// # Segment Index
//
// IndexSegments maps segment numbers to segments of one container. A number
// that appears twice is a malformed document and fails with
// ErrDuplicateSegmentNumber.
//
// # Alignment
//
// The MIG and AHB element lists of a segment are walked with two cursors. The
// MIG cursor always advances; the AHB cursor only advances on a match. An
// unmatched MIG element becomes a placeholder at the current position. AHB
// elements left over when the MIG list is exhausted fail with
// ErrSurplusAhbElements, and a result whose length differs from the MIG list
// fails with ErrLengthMismatch.
//
// Matching is lexical: a data element matches when id and name are equal and
// its code values are a subset of the MIG codes; a data element group matches
// when the id is equal and every AHB child matches some MIG child. Reordered
// AHB elements degrade into placeholder insertions and a surplus error.
//
// # Placeholders
//
// Placeholders carry UnusedStatus, a reserved usage status referencing the
// condition number UnusedConditionNumber, and no codes. SanitizeAnwendungshandbuch
// registers that condition in the AHB's condition table and fails with
// ErrSentinelCollision if the document already defines it.
//
// All functions are pure: they return new trees and never modify their inputs.
package sanitize
