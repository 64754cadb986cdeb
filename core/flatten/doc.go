// Package flatten materializes model trees into ordered rows.
//
// Every segment group, segment, data element group, data element and code
// becomes one Row. Structural rows are emitted even when the node has no
// children, so a segment group that appears or disappears between versions is
// visible to the diff engine on its own.
//
// # Paths
//
//   - Path joins the names from the document root down to the node with " > ".
//   - IDPath joins the structural ids (SG2 > NAD > C_C082 > D_3039 > 293);
//     codes contribute their value.
//   - SortPath joins the 0-based sibling positions of every level, each padded
//     to SortPathWidth digits and separated by "-". Ordering rows by SortPath
//     reproduces pre-order document order as long as every position fits the
//     width; larger positions fail with ErrPositionOverflow.
//
// # Metadata
//
// Meta (format, version, validity, format version and, for AHBs, the
// Prüfidentifikator fields) is copied onto every row, so rows of different
// documents can share one table.
//
// # Usage
//
//	f := flatten.New()
//	rows, err := f.Anwendungsfall(meta, awf)
package flatten
