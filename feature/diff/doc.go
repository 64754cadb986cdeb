// Package diff serves cross-version comparisons of stored AHB and MIG rows.
//
// Rows are loaded through the core diff cache, compared by the core diff
// engine and optionally stored as a report or exported to the bucket.
//
// # HTTP Endpoints
//
//   - GET /diff/ahb/:pruefi?old=FV2404&new=FV2410 : Diff of one Prüfidentifikator.
//   - GET /diff/mig/:format?old=FV2404&new=FV2410 : Diff of one MIG format.
//     Both accept changes=true, save=true and export=json|yaml|csv.
//   - GET /diff/versions/:kind : Ingested format versions of ahb or mig.
//   - GET /diff/reports/:id : A stored diff report.
//
// Exports are written to diff/<kind>_<scope>_<old>_<new>.<ext>.
package diff
