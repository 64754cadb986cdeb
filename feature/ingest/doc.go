// Package ingest turns MIG and AHB XML documents into stored rows.
//
// For every document the pipeline reads the tree, optionally sanitizes each
// Anwendungsfall against the MIG of its format, flattens the Anwendungsfälle
// in parallel (bounded by ingest.workers), resolves the condition texts,
// fingerprints the rows and writes one ingest run. Cached diff rows of the
// ingested format version are invalidated afterwards.
//
// Documents come from local files (FileSource) or from the bucket
// (BucketSource).
package ingest
