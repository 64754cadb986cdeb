// Package diff compares two flattened versions of the same scope.
//
// A scope is one Prüfidentifikator (AHB) or one format (MIG) in two format
// versions. Both row sets are keyed by an anchor, the union of anchors is
// built and every anchor yields exactly one Line:
//
//   - added: only the new version has the anchor; all old_* columns are nil.
//   - deleted: only the old version has the anchor; all new_* columns are nil.
//   - modified: both versions have it and at least one compared column differs.
//   - unchanged: both versions have it and all compared columns are equal.
//
// # Adapters
//
// An Adapter defines the anchor and the compared columns of a scope kind:
//
//   - AHBAdapter anchors on (id_path, Prüfidentifikator) and compares
//     ahb_status, line_name and bedingung.
//   - MIGAdapter anchors on the human readable path and compares status_std,
//     status_specification and line_name. Renamed elements therefore show up
//     as deleted plus added.
//
// An anchor that occurs several times on one side (repeated segments with
// equal ids) is numbered in sort-path order; the k-th occurrence in the old
// version is compared with the k-th occurrence in the new version.
//
// Rows carrying equal non-zero fingerprints are unchanged without comparing
// columns.
//
// # Properties
//
// Diff(a, a) classifies every row as unchanged. Swapping the versions swaps
// the added and deleted counts and keeps the modified and unchanged counts.
//
// # Cache
//
// Cache keeps loaded row sets for a TTL and lets concurrent requests for the
// same scope share one load.
package diff
