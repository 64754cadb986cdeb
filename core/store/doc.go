// Package store persists flattened rows, condition resolutions and diffs.
//
// # Tables
//
//   - ingest_runs: one row per ingested document.
//   - ahb_lines, mig_lines: flattened rows, tagged with the run that wrote them.
//   - condition_resolutions: resolved expression texts, unique per format
//     version, format and xxhash of the expression.
//   - diff_reports, diff_lines: saved diff results.
//
// A scope (format version plus Prüfidentifikator or format) may be ingested
// several times. Loading a scope reads the rows of its newest run only.
//
// # Compaction
//
// PlanCompaction lists the rows of superseded runs per scope. Before it plans
// anything it checks that no Prüfidentifikator is claimed by two format
// versions with overlapping validity, since that would make diffs ambiguous;
// such data fails with ErrValidityOverlap. ApplyCompaction deletes the planned
// rows only when the options are confirmed and not a dry run.
package store
