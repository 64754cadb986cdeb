// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so storage
// interactions can be mocked in unit tests (see core/storage/mocks). Both AWS
// S3 and self-hosted MinIO are supported.
//
// # Bucket Layout
//
//	mig/   source MIG XML documents
//	ahb/   source AHB XML documents
//	diff/  exported diff reports (json, yaml, csv)
//
// # Helpers
//
//   - ListKeys: recursive listing filtered by suffix, sorted.
//   - Upload / Download: whole-object transfers.
//   - EnsureBucket: creates the bucket unless it exists.
//   - EnsurePrefix: creates a folder marker for a layout prefix.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	keys, err := storage.ListKeys(ctx, client, "edifact", storage.PrefixAHB, ".xml")
package storage
