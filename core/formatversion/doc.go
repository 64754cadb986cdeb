// Package formatversion derives format-version tags from validity dates.
//
// EDIFACT message descriptions in the German energy market are released in
// twice-yearly batches. Every batch is addressed by a tag FVyymm naming the
// month of its key date (e.g. FV2310 for October 2023). A document belongs to
// the last format version whose key date is not after the document's validity
// start ("gültig von").
//
// Key dates are compared in German local time, so a validity start stored as
// 22:00 UTC on the day before a key date falls into the new format version.
package formatversion
